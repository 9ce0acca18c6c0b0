package bridge

import (
	"errors"
	"fmt"
	"sync"
)

// Trampoline is a native instance whose virtual methods redirect to a
// host-side override object. It exclusively owns its host handle for its
// lifetime and keeps no other state between invocations.
type Trampoline struct {
	id     string
	node   *ClassNode
	bridge *Bridge
	handle Handle

	mu     sync.Mutex
	closed bool
}

// ID returns the unique instance ID.
func (t *Trampoline) ID() string {
	return t.id
}

// ClassName returns the most-derived class this instance was constructed
// for.
func (t *Trampoline) ClassName() string {
	return t.node.name
}

// Handle returns the held host override handle.
func (t *Trampoline) Handle() Handle {
	return t.handle
}

// Invoke dispatches a virtual method: host override first, nearest-ancestor
// native default second. A successful host result is authoritative; defaults
// are never consulted once the host answers. A method with no override and
// no default anywhere in the chain fails with ErrUnimplementedVirtual.
func (t *Trampoline) Invoke(method string, args []Value) (Value, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return NilValue(), fmt.Errorf("%w: %s", ErrInstanceClosed, t.id)
	}
	t.mu.Unlock()

	// A bridge with no host runtime dispatches as if nothing is overridden.
	if t.bridge.host != nil {
		result, err := t.bridge.host.Invoke(t.handle, method, args)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrNoSuchMethod) {
			return NilValue(), fmt.Errorf("host dispatch of %s.%s: %w", t.node.name, method, err)
		}
	}

	// Host doesn't override this method: walk from our level toward the
	// root for a native default. Levels below this instance's class are
	// never considered.
	if impl := t.bridge.DefaultFor(t.node.name, method); impl != nil {
		return impl(t, args)
	}

	return NilValue(), fmt.Errorf("%w: %s.%s", ErrUnimplementedVirtual, t.node.name, method)
}

// Close releases the host handle and unregisters the instance. Safe to call
// more than once; the handle is released exactly once.
func (t *Trampoline) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.bridge.removeInstance(t.id)
	if t.bridge.host == nil {
		return nil
	}
	return t.bridge.host.Release(t.handle)
}
