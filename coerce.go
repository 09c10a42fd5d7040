// FILE: lixenwraith/envhanced/coerce.go
package envhanced

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Coerce converts a raw string into a typed Value. Steps are tried in order and
// the first that succeeds wins:
//
//  1. JSON (objects, arrays and scalars; null is not accepted)
//  2. the literals true, True, false, False
//  3. base-10 int64
//  4. decimal float64, including NaN and Inf spellings and _ digit separators
//  5. the raw string unchanged
//
// Integers outside the int64 range become float64 and may lose precision.
// Hexadecimal floats such as 0x1p-2 stay strings.
//
// Coerce never fails. An empty string stays an empty string.
func Coerce(raw string) Value {
	if v, ok := coerceJSON(raw); ok {
		return v
	}

	switch raw {
	case "true", "True":
		return Value{kind: KindBool, raw: raw, v: true}
	case "false", "False":
		return Value{kind: KindBool, raw: raw, v: false}
	}

	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Value{kind: KindInt, raw: raw, v: i}
	}

	if !isHexNumber(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return Value{kind: KindFloat, raw: raw, v: f}
		}
	}

	return Value{kind: KindString, raw: raw, v: raw}
}

// CoerceAll applies Coerce to every value of a raw mapping.
func CoerceAll(raw map[string]string) map[string]Value {
	out := make(map[string]Value, len(raw))
	for k, v := range raw {
		out[k] = Coerce(v)
	}
	return out
}

// coerceJSON decodes raw as exactly one JSON value.
func coerceJSON(raw string) (Value, bool) {
	if strings.TrimSpace(raw) == "" {
		return Value{}, false
	}

	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber() // Preserve integer precision

	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return Value{}, false
	}
	// Reject trailing content such as `[1] [2]` or `1 x`
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return Value{}, false
	}

	normalized, err := normalizeJSON(decoded)
	if err != nil {
		return Value{}, false
	}

	switch n := normalized.(type) {
	case nil:
		return Value{}, false
	case bool:
		return Value{kind: KindBool, raw: raw, v: n}, true
	case int64:
		return Value{kind: KindInt, raw: raw, v: n}, true
	case float64:
		return Value{kind: KindFloat, raw: raw, v: n}, true
	case string:
		return Value{kind: KindString, raw: raw, v: n}, true
	default:
		return Value{kind: KindStructured, raw: raw, v: n}, true
	}
}

// normalizeJSON replaces json.Number with int64 or float64, recursively.
func normalizeJSON(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		return numberValue(t)
	case []any:
		for i, elem := range t {
			n, err := normalizeJSON(elem)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	case map[string]any:
		for k, elem := range t {
			n, err := normalizeJSON(elem)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	default:
		return v, nil
	}
}

// isHexNumber reports whether raw carries a 0x prefix after an optional sign.
func isHexNumber(raw string) bool {
	digits := strings.TrimLeft(raw, "+-")
	return len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X')
}

// numberValue keeps integers that fit in int64 and widens the rest to float64.
func numberValue(n json.Number) (any, error) {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return nil, fmt.Errorf("number %s out of range: %w", n, err)
	}
	return f, nil
}
