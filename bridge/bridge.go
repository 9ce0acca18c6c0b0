package bridge

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Bridge owns a hierarchy table and the live trampoline instances created
// against it. Construct one per embedding; there is no process-wide
// singleton, so tests can build independent bridges.
type Bridge struct {
	hierarchy *Hierarchy
	host      HostRuntime

	instMu    sync.RWMutex
	instances map[string]*Trampoline
}

// New creates a bridge backed by the given host runtime. A nil host is
// allowed: instances then dispatch straight to native defaults.
func New(host HostRuntime) *Bridge {
	return &Bridge{
		hierarchy: NewHierarchy(),
		host:      host,
		instances: make(map[string]*Trampoline),
	}
}

// RegisterClass registers one level of the native hierarchy. Ancestors must
// be registered first.
func (b *Bridge) RegisterClass(name, parent string, methods []VirtualMethod, defaults map[string]DefaultFunc) (*ClassNode, error) {
	return b.hierarchy.RegisterClass(name, parent, methods, defaults)
}

// Hierarchy exposes the class table for read-only inspection.
func (b *Bridge) Hierarchy() *Hierarchy {
	return b.hierarchy
}

// Create builds a trampoline instance of the named class around a host
// override handle. The trampoline takes ownership of the handle.
func (b *Bridge) Create(className string, handle Handle) (*Trampoline, error) {
	node := b.hierarchy.Node(className)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, className)
	}

	t := &Trampoline{
		id:     b.generateID(className),
		node:   node,
		bridge: b,
		handle: handle,
	}

	b.instMu.Lock()
	b.instances[t.id] = t
	b.instMu.Unlock()

	return t, nil
}

// Instance retrieves a live trampoline by ID. Returns nil once closed.
func (b *Bridge) Instance(id string) *Trampoline {
	b.instMu.RLock()
	defer b.instMu.RUnlock()
	return b.instances[id]
}

// InstanceCount returns the number of live trampolines.
func (b *Bridge) InstanceCount() int {
	b.instMu.RLock()
	defer b.instMu.RUnlock()
	return len(b.instances)
}

// DefaultFor resolves the nearest-ancestor native default for a method.
// This is the single source of truth for fallback resolution; every
// trampoline delegates here rather than keeping its own table.
func (b *Bridge) DefaultFor(className, method string) DefaultFunc {
	return b.hierarchy.DefaultFor(className, method)
}

// removeInstance drops a closed trampoline from the live table.
func (b *Bridge) removeInstance(id string) {
	b.instMu.Lock()
	defer b.instMu.Unlock()
	delete(b.instances, id)
}

// generateID creates a unique instance ID prefixed with the class name.
func (b *Bridge) generateID(className string) string {
	prefix := strings.ToLower(strings.ReplaceAll(className, "::", "_"))
	return prefix + "_" + uuid.New().String()
}

// ClassInfo describes one registered class for external surfaces (the API
// manifest). Methods lists declared virtual methods; Defaulted the subset
// with a native fallback at this level.
type ClassInfo struct {
	Name      string
	Parent    string
	Methods   []VirtualMethod
	Defaulted []string
}

// Classes returns descriptions of every registered class in registration
// order.
func (b *Bridge) Classes() []ClassInfo {
	h := b.hierarchy
	names := h.ClassNames()

	infos := make([]ClassInfo, 0, len(names))
	for _, name := range names {
		node := h.Node(name)
		info := ClassInfo{Name: name}
		if p := h.Parent(node); p != nil {
			info.Parent = p.Name()
		}
		info.Methods = node.Methods()
		for _, m := range info.Methods {
			if node.HasDefault(m.Name) {
				info.Defaulted = append(info.Defaulted, m.Name)
			}
		}
		infos = append(infos, info)
	}
	return infos
}
