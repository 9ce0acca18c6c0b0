package bridge

import "fmt"

// Ref is an instance viewed at one specific hierarchy level, the analog of
// a native reference statically typed at an ancestor class. Dispatch through
// a Ref still resolves against the instance's actual most-derived class.
type Ref struct {
	inst  *Trampoline
	level *ClassNode
}

// RefAt forms a view of an instance typed at the named class. Fails with
// ErrUnknownClass if the level is unregistered, or ErrNotDescendant if the
// instance's class is not at or below that level. This is where the static
// typing precondition of native call sites is checked.
func (b *Bridge) RefAt(inst *Trampoline, className string) (Ref, error) {
	level := b.hierarchy.Node(className)
	if level == nil {
		return Ref{}, fmt.Errorf("%w: %s", ErrUnknownClass, className)
	}
	if !b.hierarchy.Descends(inst.node.name, className) {
		return Ref{}, fmt.Errorf("%w: %s of %s", ErrNotDescendant, inst.node.name, className)
	}
	return Ref{inst: inst, level: level}, nil
}

// Level returns the class name the reference is typed at.
func (r Ref) Level() string {
	if r.level == nil {
		return ""
	}
	return r.level.name
}

// Instance returns the underlying trampoline.
func (r Ref) Instance() *Trampoline {
	return r.inst
}

// Call invokes a named virtual method through an ancestor-typed reference.
// It is a pure pass-through: dispatch runs against the instance's dynamic
// class, so host overrides registered at a deeper level still win.
func Call(r Ref, method string, args []Value) (Value, error) {
	if r.inst == nil {
		return NilValue(), fmt.Errorf("nil reference")
	}
	return r.inst.Invoke(method, args)
}
