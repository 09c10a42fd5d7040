// FILE: lixenwraith/envhanced/type.go
package envhanced

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// String retrieves a configuration value as a string.
// Strings are returned as is, scalars are formatted and structured values
// return their source JSON.
func (s *Store) String(name string) (string, error) {
	v, err := s.Value(name)
	if err != nil {
		return "", err
	}

	switch v.Kind() {
	case KindString:
		str, _ := v.AsString()
		return str, nil
	case KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b), nil
	case KindInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10), nil
	case KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	default:
		return v.Raw(), nil
	}
}

// Int64 retrieves a configuration value as an int64.
// Floats convert only when they hold a whole number, booleans become 0 or 1.
func (s *Store) Int64(name string) (int64, error) {
	v, err := s.Value(name)
	if err != nil {
		return 0, err
	}

	switch v.Kind() {
	case KindInt:
		i, _ := v.AsInt()
		return i, nil
	case KindFloat:
		f, _ := v.AsFloat()
		if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, fmt.Errorf("%w: cannot convert float %v to int64 for %s", ErrTypeMismatch, f, name)
		}
		return int64(f), nil
	case KindBool:
		if b, _ := v.AsBool(); b {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("%w: cannot convert %s %q to int64 for %s", ErrTypeMismatch, v.Kind(), v.Raw(), name)
}

// Bool retrieves a configuration value as a bool.
// Numbers convert with 0 as false and anything else as true.
func (s *Store) Bool(name string) (bool, error) {
	v, err := s.Value(name)
	if err != nil {
		return false, err
	}

	switch v.Kind() {
	case KindBool:
		b, _ := v.AsBool()
		return b, nil
	case KindInt:
		i, _ := v.AsInt()
		return i != 0, nil
	case KindFloat:
		f, _ := v.AsFloat()
		return f != 0, nil
	}

	return false, fmt.Errorf("%w: cannot convert %s %q to bool for %s", ErrTypeMismatch, v.Kind(), v.Raw(), name)
}

// Float64 retrieves a configuration value as a float64.
func (s *Store) Float64(name string) (float64, error) {
	v, err := s.Value(name)
	if err != nil {
		return 0.0, err
	}

	switch v.Kind() {
	case KindFloat:
		f, _ := v.AsFloat()
		return f, nil
	case KindInt:
		i, _ := v.AsInt()
		return float64(i), nil
	case KindBool:
		if b, _ := v.AsBool(); b {
			return 1.0, nil
		}
		return 0.0, nil
	}

	return 0.0, fmt.Errorf("%w: cannot convert %s %q to float64 for %s", ErrTypeMismatch, v.Kind(), v.Raw(), name)
}

// Decode unmarshals the raw JSON of a structured value into target.
func (s *Store) Decode(name string, target any) error {
	v, err := s.Value(name)
	if err != nil {
		return err
	}
	if v.Kind() != KindStructured {
		return fmt.Errorf("%w: %s is %s, not structured", ErrTypeMismatch, name, v.Kind())
	}
	if err := json.Unmarshal([]byte(v.Raw()), target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}
