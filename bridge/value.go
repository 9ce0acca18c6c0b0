package bridge

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueType represents the type of a bridged value
type ValueType int

const (
	TypeNil ValueType = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeArray
)

// Value is the representation shared between native code and the host.
// Richer conversions are the interop layer's concern; the bridge only needs
// a type it can pass through dispatch and print on the wire.
type Value struct {
	Type      ValueType
	IntVal    int64
	FloatVal  float64
	StringVal string
	ArrayVal  []Value
}

// NilValue returns a nil value
func NilValue() Value {
	return Value{Type: TypeNil}
}

// IntValue creates an integer value
func IntValue(n int64) Value {
	return Value{Type: TypeInt, IntVal: n}
}

// FloatValue creates a float value
func FloatValue(f float64) Value {
	return Value{Type: TypeFloat, FloatVal: f}
}

// StringValue creates a string value
func StringValue(s string) Value {
	return Value{Type: TypeString, StringVal: s}
}

// BoolValue creates a boolean value
func BoolValue(b bool) Value {
	if b {
		return Value{Type: TypeBool, IntVal: 1}
	}
	return Value{Type: TypeBool, IntVal: 0}
}

// ArrayValue creates an array value
func ArrayValue(elems ...Value) Value {
	return Value{Type: TypeArray, ArrayVal: elems}
}

// IsNil returns true if the value is nil
func (v Value) IsNil() bool {
	return v.Type == TypeNil
}

// AsString converts the value to a string representation
func (v Value) AsString() string {
	switch v.Type {
	case TypeNil:
		return ""
	case TypeInt:
		return strconv.FormatInt(v.IntVal, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.FloatVal, 'f', -1, 64)
	case TypeString:
		return v.StringVal
	case TypeBool:
		if v.IntVal != 0 {
			return "true"
		}
		return "false"
	case TypeArray:
		return v.ToJSON()
	default:
		return ""
	}
}

// AsInt converts the value to an integer
func (v Value) AsInt() int64 {
	switch v.Type {
	case TypeInt:
		return v.IntVal
	case TypeFloat:
		return int64(v.FloatVal)
	case TypeBool:
		return v.IntVal
	case TypeString:
		n, _ := strconv.ParseInt(v.StringVal, 10, 64)
		return n
	default:
		return 0
	}
}

// AsBool converts the value to a boolean
func (v Value) AsBool() bool {
	switch v.Type {
	case TypeNil:
		return false
	case TypeBool, TypeInt:
		return v.IntVal != 0
	case TypeFloat:
		return v.FloatVal != 0
	case TypeString:
		return v.StringVal != "" && v.StringVal != "false"
	default:
		return true
	}
}

// ToJSON serializes the value to JSON
func (v Value) ToJSON() string {
	switch v.Type {
	case TypeNil:
		return "null"
	case TypeInt:
		return strconv.FormatInt(v.IntVal, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.FloatVal, 'f', -1, 64)
	case TypeString:
		data, _ := json.Marshal(v.StringVal)
		return string(data)
	case TypeBool:
		if v.IntVal != 0 {
			return "true"
		}
		return "false"
	case TypeArray:
		result := "["
		for i, elem := range v.ArrayVal {
			if i > 0 {
				result += ","
			}
			result += elem.ToJSON()
		}
		return result + "]"
	default:
		return "null"
	}
}

// ValuesToJSON serializes an argument list to a JSON array on one line.
func ValuesToJSON(args []Value) string {
	return ArrayValue(args...).ToJSON()
}

// ValueFromJSON parses a JSON document into a Value.
func ValueFromJSON(jsonStr string) (Value, error) {
	if jsonStr == "" {
		return NilValue(), nil
	}
	var raw interface{}
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return NilValue(), fmt.Errorf("parsing value: %w", err)
	}
	return valueFromAny(raw), nil
}

// ValuesFromJSON parses a JSON array into an argument list.
func ValuesFromJSON(jsonStr string) ([]Value, error) {
	v, err := ValueFromJSON(jsonStr)
	if err != nil {
		return nil, err
	}
	if v.Type == TypeNil {
		return nil, nil
	}
	if v.Type != TypeArray {
		return nil, fmt.Errorf("expected JSON array, got %s", jsonStr)
	}
	return v.ArrayVal, nil
}

func valueFromAny(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return NilValue()
	case bool:
		return BoolValue(x)
	case float64:
		// encoding/json decodes all numbers as float64
		if x == float64(int64(x)) {
			return IntValue(int64(x))
		}
		return FloatValue(x)
	case string:
		return StringValue(x)
	case []interface{}:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = valueFromAny(e)
		}
		return ArrayValue(elems...)
	default:
		return NilValue()
	}
}
