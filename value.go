// FILE: lixenwraith/envhanced/value.go
package envhanced

import (
	"fmt"
	"strconv"
)

// Kind is the type a raw string was coerced into
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	// KindStructured holds a decoded JSON object (map[string]any) or array ([]any)
	KindStructured
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStructured:
		return "structured"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a coerced configuration value together with the raw text it came from.
// The zero Value is an empty string.
type Value struct {
	kind Kind
	raw  string
	v    any
}

// Kind reports which variant the value holds
func (v Value) Kind() Kind { return v.kind }

// Raw returns the string before coercion
func (v Value) Raw() string { return v.raw }

// Interface returns the coerced Go value: bool, int64, float64, string,
// map[string]any or []any.
func (v Value) Interface() any {
	if v.v == nil && v.kind == KindString {
		return v.raw
	}
	return v.v
}

// AsBool returns the boolean and true if the value is a KindBool
func (v Value) AsBool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok && v.kind == KindBool
}

// AsInt returns the integer and true if the value is a KindInt
func (v Value) AsInt() (int64, bool) {
	i, ok := v.v.(int64)
	return i, ok && v.kind == KindInt
}

// AsFloat returns the float and true if the value is a KindFloat
func (v Value) AsFloat() (float64, bool) {
	f, ok := v.v.(float64)
	return f, ok && v.kind == KindFloat
}

// AsString returns the string and true if the value is a KindString
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	s, _ := v.Interface().(string)
	return s, true
}

// AsStructured returns the decoded JSON object or array and true if the value is KindStructured
func (v Value) AsStructured() (any, bool) {
	if v.kind != KindStructured {
		return nil, false
	}
	return v.v, true
}

// String formats the coerced value
func (v Value) String() string {
	switch v.kind {
	case KindString:
		s, _ := v.AsString()
		return s
	case KindStructured:
		// Structured values print as their source JSON
		return v.raw
	default:
		return fmt.Sprint(v.v)
	}
}
