// Package manifest handles hierarchy declaration files and the externally
// observable API manifest of a dispatch bridge.
package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/chazu/overbridge/bridge"
)

// ErrMissingDefault indicates a declared overridable method with no native
// default supplied by the caller.
var ErrMissingDefault = errors.New("missing native default")

// Declaration is a parsed hierarchy declaration file.
type Declaration struct {
	Classes []ClassDecl `toml:"class"`
}

// ClassDecl declares one class. Classes register in file order, so parents
// must appear before children.
type ClassDecl struct {
	Name    string       `toml:"name"`
	Parent  string       `toml:"parent"`
	Methods []MethodDecl `toml:"methods"`
}

// MethodDecl declares one virtual method. Overridable methods carry a
// native default implementation, supplied at registration time.
type MethodDecl struct {
	Name        string `toml:"name"`
	Args        int    `toml:"args"`
	Overridable bool   `toml:"overridable"`
}

// Load parses a hierarchy declaration from a TOML file.
func Load(path string) (*Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return d, nil
}

// Parse parses a hierarchy declaration from TOML bytes.
func Parse(data []byte) (*Declaration, error) {
	var d Declaration
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	for _, c := range d.Classes {
		if c.Name == "" {
			return nil, fmt.Errorf("class with empty name")
		}
	}
	return &d, nil
}

// Register registers the declared hierarchy into a bridge. defaults supplies
// the native implementations for overridable methods, keyed "Class.method";
// a declared overridable method without one fails with ErrMissingDefault
// before anything is registered.
func (d *Declaration) Register(b *bridge.Bridge, defaults map[string]bridge.DefaultFunc) error {
	for _, c := range d.Classes {
		for _, m := range c.Methods {
			if m.Overridable {
				if _, ok := defaults[c.Name+"."+m.Name]; !ok {
					return fmt.Errorf("%w: %s.%s", ErrMissingDefault, c.Name, m.Name)
				}
			}
		}
	}

	for _, c := range d.Classes {
		methods := make([]bridge.VirtualMethod, 0, len(c.Methods))
		classDefaults := make(map[string]bridge.DefaultFunc)
		for _, m := range c.Methods {
			methods = append(methods, bridge.VirtualMethod{Name: m.Name, NumArgs: m.Args})
			if m.Overridable {
				classDefaults[m.Name] = defaults[c.Name+"."+m.Name]
			}
		}
		if _, err := b.RegisterClass(c.Name, c.Parent, methods, classDefaults); err != nil {
			return fmt.Errorf("registering %s: %w", c.Name, err)
		}
	}
	return nil
}
