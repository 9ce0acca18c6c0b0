package bridge

import (
	"fmt"
	"sync"
)

// DefaultFunc is the signature of a native default implementation. It runs
// when the host override object doesn't implement the invoked method.
type DefaultFunc func(self *Trampoline, args []Value) (Value, error)

// VirtualMethod declares one overridable method: a selector plus an arity
// tag. Identity within a chain is (declaring class, name).
type VirtualMethod struct {
	Name    string
	NumArgs int
}

// ClassNode is one level of a registered hierarchy. Parent links are arena
// indices so the ancestor walk is an explicit loop, not language-level
// subclassing.
type ClassNode struct {
	name     string
	index    int
	parent   int // -1 for a root class
	methods  map[string]VirtualMethod
	defaults map[string]DefaultFunc
}

// Name returns the class name.
func (n *ClassNode) Name() string {
	return n.name
}

// Declares returns true if this class (not ancestors) declares the method.
func (n *ClassNode) Declares(method string) bool {
	_, ok := n.methods[method]
	return ok
}

// Methods returns the methods declared at this level. Order is not
// deterministic; callers sort if they need it.
func (n *ClassNode) Methods() []VirtualMethod {
	result := make([]VirtualMethod, 0, len(n.methods))
	for _, m := range n.methods {
		result = append(result, m)
	}
	return result
}

// HasDefault returns true if this class (not ancestors) carries a native
// default for the method.
func (n *ClassNode) HasDefault(method string) bool {
	_, ok := n.defaults[method]
	return ok
}

// Hierarchy is the table of registered classes. It is built once, in
// dependency order, and read-only afterward, so reentrant host callbacks
// can resolve concurrently.
type Hierarchy struct {
	mu     sync.RWMutex
	nodes  []*ClassNode
	byName map[string]int
}

// NewHierarchy creates an empty hierarchy table.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		byName: make(map[string]int),
	}
}

// RegisterClass appends a class node. parent is "" for a root class.
// Fails with ErrDuplicateClass or ErrUnknownParent; a failed registration
// leaves the table unchanged.
func (h *Hierarchy) RegisterClass(name, parent string, methods []VirtualMethod, defaults map[string]DefaultFunc) (*ClassNode, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.byName[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateClass, name)
	}

	parentIdx := -1
	if parent != "" {
		idx, ok := h.byName[parent]
		if !ok {
			return nil, fmt.Errorf("%w: %s (registering %s)", ErrUnknownParent, parent, name)
		}
		parentIdx = idx
	}

	node := &ClassNode{
		name:     name,
		index:    len(h.nodes),
		parent:   parentIdx,
		methods:  make(map[string]VirtualMethod, len(methods)),
		defaults: make(map[string]DefaultFunc, len(defaults)),
	}
	for _, m := range methods {
		node.methods[m.Name] = m
	}
	for sel, impl := range defaults {
		node.defaults[sel] = impl
	}

	h.nodes = append(h.nodes, node)
	h.byName[name] = node.index
	return node, nil
}

// Node finds a class by name. Returns nil if not registered.
func (h *Hierarchy) Node(name string) *ClassNode {
	h.mu.RLock()
	defer h.mu.RUnlock()
	idx, ok := h.byName[name]
	if !ok {
		return nil
	}
	return h.nodes[idx]
}

// Parent returns a node's parent, or nil for roots.
func (h *Hierarchy) Parent(node *ClassNode) *ClassNode {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if node == nil || node.parent < 0 {
		return nil
	}
	return h.nodes[node.parent]
}

// DefaultFor walks from the named class toward the root and returns the
// nearest native default for the method. Returns nil if no class in the
// chain carries one, or if the class is unknown.
func (h *Hierarchy) DefaultFor(className, method string) DefaultFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()

	idx, ok := h.byName[className]
	if !ok {
		return nil
	}
	for idx >= 0 {
		node := h.nodes[idx]
		if impl, ok := node.defaults[method]; ok {
			return impl
		}
		idx = node.parent
	}
	return nil
}

// DeclaredAtOrAbove returns true if the method is declared on the class or
// any ancestor. Resolution never considers classes below the instance's own
// level.
func (h *Hierarchy) DeclaredAtOrAbove(className, method string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	idx, ok := h.byName[className]
	if !ok {
		return false
	}
	for idx >= 0 {
		node := h.nodes[idx]
		if _, ok := node.methods[method]; ok {
			return true
		}
		idx = node.parent
	}
	return false
}

// Descends returns true if class is ancestor, or a transitive child of it.
func (h *Hierarchy) Descends(class, ancestor string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	idx, ok := h.byName[class]
	if !ok {
		return false
	}
	ancIdx, ok := h.byName[ancestor]
	if !ok {
		return false
	}
	for idx >= 0 {
		if idx == ancIdx {
			return true
		}
		idx = h.nodes[idx].parent
	}
	return false
}

// ClassNames returns all registered class names in registration order.
func (h *Hierarchy) ClassNames() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, len(h.nodes))
	for i, node := range h.nodes {
		names[i] = node.name
	}
	return names
}

// Len returns the number of registered classes.
func (h *Hierarchy) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.nodes)
}
