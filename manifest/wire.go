package manifest

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/overbridge/bridge"
)

// cborEncMode uses canonical options for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("manifest: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Manifest is the observable surface of a bridge: every registered class,
// its parent, and its method names. This is what an embedding host sees as
// constructible types with overridable methods.
type Manifest struct {
	Classes []ClassEntry `json:"classes" cbor:"1,keyasint"`
}

// ClassEntry describes one class on the wire.
type ClassEntry struct {
	Name        string        `json:"name" cbor:"1,keyasint"`
	Parent      string        `json:"parent,omitempty" cbor:"2,keyasint,omitempty"`
	Overridable []MethodEntry `json:"overridable,omitempty" cbor:"3,keyasint,omitempty"`
	Defaulted   []string      `json:"defaulted,omitempty" cbor:"4,keyasint,omitempty"`
}

// MethodEntry describes one declared virtual method.
type MethodEntry struct {
	Name string `json:"name" cbor:"1,keyasint"`
	Args int    `json:"args" cbor:"2,keyasint"`
}

// Describe builds the manifest of everything registered on a bridge.
// Classes appear in registration order; methods are sorted by name.
func Describe(b *bridge.Bridge) *Manifest {
	m := &Manifest{}
	for _, info := range b.Classes() {
		entry := ClassEntry{
			Name:   info.Name,
			Parent: info.Parent,
		}
		for _, method := range info.Methods {
			entry.Overridable = append(entry.Overridable, MethodEntry{Name: method.Name, Args: method.NumArgs})
		}
		sort.Slice(entry.Overridable, func(i, j int) bool {
			return entry.Overridable[i].Name < entry.Overridable[j].Name
		})
		entry.Defaulted = append(entry.Defaulted, info.Defaulted...)
		sort.Strings(entry.Defaulted)
		m.Classes = append(m.Classes, entry)
	}
	return m
}

// ToJSON renders the manifest as indented JSON.
func (m *Manifest) ToJSON() (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("manifest: marshal json: %w", err)
	}
	return string(data), nil
}

// EncodeWire serializes the manifest to canonical CBOR bytes.
func (m *Manifest) EncodeWire() ([]byte, error) {
	return cborEncMode.Marshal(m)
}

// DecodeWire deserializes a manifest from CBOR bytes.
func DecodeWire(data []byte) (*Manifest, error) {
	var m Manifest
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: unmarshal: %w", err)
	}
	return &m, nil
}

// Class finds a class entry by name. Returns nil if absent.
func (m *Manifest) Class(name string) *ClassEntry {
	for i := range m.Classes {
		if m.Classes[i].Name == name {
			return &m.Classes[i]
		}
	}
	return nil
}
