package bridge

// Handle is an opaque reference to a host-side override object. The bridge
// never inspects it; it only passes it back to the host runtime and releases
// it exactly once when the owning trampoline closes.
type Handle interface{}

// HostRuntime is the capability the embedding host provides. Invoke must
// fail with an error wrapping ErrNoSuchMethod when the override object does
// not implement the method; any other error is a host failure and propagates
// to the native caller unchanged.
type HostRuntime interface {
	Invoke(handle Handle, method string, args []Value) (Value, error)
	Release(handle Handle) error
}
