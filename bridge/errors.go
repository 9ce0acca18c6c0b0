package bridge

import "errors"

// ErrDuplicateClass indicates a class name was registered twice.
var ErrDuplicateClass = errors.New("duplicate class")

// ErrUnknownParent indicates a class declared a parent that was never
// registered. Registration must happen in dependency order.
var ErrUnknownParent = errors.New("unknown parent class")

// ErrUnknownClass indicates the requested class doesn't exist.
var ErrUnknownClass = errors.New("unknown class")

// ErrNoSuchMethod is the host runtime's signal that the override object does
// not implement a method. It triggers native default fallback and is never
// returned from Trampoline.Invoke.
var ErrNoSuchMethod = errors.New("no such method")

// ErrUnimplementedVirtual indicates a virtual method with no host override
// and no native default anywhere in the ancestor chain.
var ErrUnimplementedVirtual = errors.New("unimplemented virtual method")

// ErrInstanceClosed indicates an invoke on a trampoline whose host handle
// was already released.
var ErrInstanceClosed = errors.New("instance closed")

// ErrNotDescendant indicates an attempt to view an instance at a hierarchy
// level its class does not descend from.
var ErrNotDescendant = errors.New("class is not a descendant")
