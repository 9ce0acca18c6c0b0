package bridge

import (
	"errors"
	"testing"
)

func TestRegisterClassDependencyOrder(t *testing.T) {
	h := NewHierarchy()

	if _, err := h.RegisterClass("Base", "", []VirtualMethod{{Name: "do_something"}}, nil); err != nil {
		t.Fatalf("registering Base: %v", err)
	}
	if _, err := h.RegisterClass("Derived", "Base", nil, nil); err != nil {
		t.Fatalf("registering Derived: %v", err)
	}

	if h.Len() != 2 {
		t.Errorf("class count = %d, want 2", h.Len())
	}
	if node := h.Node("Derived"); node == nil {
		t.Fatal("Derived not found after registration")
	}
	if p := h.Parent(h.Node("Derived")); p == nil || p.Name() != "Base" {
		t.Errorf("Derived parent = %v, want Base", p)
	}
	if p := h.Parent(h.Node("Base")); p != nil {
		t.Errorf("Base parent = %s, want nil", p.Name())
	}
}

func TestRegisterClassDuplicate(t *testing.T) {
	h := NewHierarchy()

	if _, err := h.RegisterClass("Base", "", nil, nil); err != nil {
		t.Fatalf("registering Base: %v", err)
	}
	_, err := h.RegisterClass("Base", "", nil, nil)
	if !errors.Is(err, ErrDuplicateClass) {
		t.Errorf("duplicate registration error = %v, want ErrDuplicateClass", err)
	}
	if h.Len() != 1 {
		t.Errorf("class count after duplicate = %d, want 1", h.Len())
	}
}

func TestRegisterClassUnknownParent(t *testing.T) {
	h := NewHierarchy()

	_, err := h.RegisterClass("Derived", "Base", nil, nil)
	if !errors.Is(err, ErrUnknownParent) {
		t.Errorf("error = %v, want ErrUnknownParent", err)
	}
	// No partial registration: the table must be unchanged.
	if h.Len() != 0 {
		t.Errorf("class count after failed registration = %d, want 0", h.Len())
	}
	if h.Node("Derived") != nil {
		t.Error("Derived registered despite unknown parent")
	}
}

func TestDefaultForNearestAncestor(t *testing.T) {
	baseImpl := func(self *Trampoline, args []Value) (Value, error) {
		return StringValue("base"), nil
	}
	derivedImpl := func(self *Trampoline, args []Value) (Value, error) {
		return StringValue("derived"), nil
	}

	// Chain with a default only at the root: the walk from ExtraDerived
	// must skip Derived and land on Base.
	h := NewHierarchy()
	h.RegisterClass("Base", "", []VirtualMethod{{Name: "do_something"}},
		map[string]DefaultFunc{"do_something": baseImpl})
	h.RegisterClass("Derived", "Base", nil, nil)
	h.RegisterClass("ExtraDerived", "Derived", []VirtualMethod{{Name: "do_something_else"}}, nil)

	impl := h.DefaultFor("ExtraDerived", "do_something")
	if impl == nil {
		t.Fatal("no default resolved for ExtraDerived.do_something")
	}
	v, _ := impl(nil, nil)
	if v.AsString() != "base" {
		t.Errorf("resolved default = %q, want base", v.AsString())
	}

	// No default anywhere for do_something_else.
	if h.DefaultFor("ExtraDerived", "do_something_else") != nil {
		t.Error("resolved a default for do_something_else, want none")
	}

	// With a middle-level default, the nearest one wins.
	h2 := NewHierarchy()
	h2.RegisterClass("Base", "", []VirtualMethod{{Name: "do_something"}},
		map[string]DefaultFunc{"do_something": baseImpl})
	h2.RegisterClass("Derived", "Base", nil,
		map[string]DefaultFunc{"do_something": derivedImpl})
	h2.RegisterClass("ExtraDerived", "Derived", nil, nil)

	impl = h2.DefaultFor("ExtraDerived", "do_something")
	if impl == nil {
		t.Fatal("no default resolved")
	}
	v, _ = impl(nil, nil)
	if v.AsString() != "derived" {
		t.Errorf("resolved default = %q, want derived (nearest ancestor first)", v.AsString())
	}
}

func TestDeclaredAtOrAbove(t *testing.T) {
	h := NewHierarchy()
	h.RegisterClass("Base", "", []VirtualMethod{{Name: "do_something"}}, nil)
	h.RegisterClass("Derived", "Base", nil, nil)
	h.RegisterClass("ExtraDerived", "Derived", []VirtualMethod{{Name: "do_something_else", NumArgs: 1}}, nil)

	if !h.DeclaredAtOrAbove("ExtraDerived", "do_something") {
		t.Error("do_something not visible from ExtraDerived")
	}
	if !h.DeclaredAtOrAbove("ExtraDerived", "do_something_else") {
		t.Error("do_something_else not visible from ExtraDerived")
	}
	// Methods declared below a level must not be visible from it.
	if h.DeclaredAtOrAbove("Base", "do_something_else") {
		t.Error("do_something_else visible from Base")
	}
	if h.DeclaredAtOrAbove("Base", "nonexistent") {
		t.Error("nonexistent method reported as declared")
	}
}

func TestDescends(t *testing.T) {
	h := NewHierarchy()
	h.RegisterClass("Base", "", nil, nil)
	h.RegisterClass("Derived", "Base", nil, nil)
	h.RegisterClass("Other", "", nil, nil)

	if !h.Descends("Derived", "Base") {
		t.Error("Derived should descend from Base")
	}
	if !h.Descends("Base", "Base") {
		t.Error("a class descends from itself")
	}
	if h.Descends("Base", "Derived") {
		t.Error("Base should not descend from Derived")
	}
	if h.Descends("Other", "Base") {
		t.Error("Other should not descend from Base")
	}
}

func TestClassNamesRegistrationOrder(t *testing.T) {
	h := NewHierarchy()
	h.RegisterClass("Base", "", nil, nil)
	h.RegisterClass("Derived", "Base", nil, nil)
	h.RegisterClass("ExtraDerived", "Derived", nil, nil)

	names := h.ClassNames()
	want := []string{"Base", "Derived", "ExtraDerived"}
	if len(names) != len(want) {
		t.Fatalf("class names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("class name %d = %q, want %q", i, names[i], want[i])
		}
	}
}
