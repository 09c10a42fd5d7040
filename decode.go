// FILE: lixenwraith/envhanced/decode.go
package envhanced

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
)

// Scan decodes all coerced values into the struct pointed to by target.
// Fields are matched by the configured tag (default "env"), falling back to a
// case-insensitive match on the field name.
func (s *Store) Scan(target any) error {
	return s.unmarshal("", "", target)
}

// ScanPrefix decodes the names starting with prefix into target, with the
// prefix stripped. ScanPrefix("DB_", &db) fills a field tagged "HOST" from DB_HOST.
func (s *Store) ScanPrefix(prefix string, target any) error {
	return s.unmarshal(prefix, "", target)
}

// ScanSource decodes only the values supplied by one source.
func (s *Store) ScanSource(source Source, target any) error {
	return s.unmarshal("", source, target)
}

// unmarshal is the single decoding path behind Scan, ScanPrefix and ScanSource.
func (s *Store) unmarshal(prefix string, source Source, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("unmarshal target must be non-nil pointer, got %T", target)
	}

	var input map[string]any
	if source == "" {
		input = s.Values()
	} else {
		layer := s.Layer(source)
		input = make(map[string]any, len(layer))
		for name, raw := range layer {
			input[name] = Coerce(raw).Interface()
		}
	}

	if prefix != "" {
		section := make(map[string]any)
		for name, value := range input {
			if rest, ok := strings.CutPrefix(name, prefix); ok && rest != "" {
				section[rest] = value
			}
		}
		input = section
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          s.opts.TagName,
		WeaklyTypedInput: true,
		DecodeHook:       getDecodeHook(),
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode failed for prefix %q: %w", prefix, err)
	}

	return nil
}

// Bind parses the merged raw strings into target with caarlos0/env, so the
// usual `env`, `envDefault`, `required` and `envSeparator` tags apply.
func (s *Store) Bind(target any) error {
	if err := env.ParseWithOptions(target, env.Options{
		Environment: s.RawValues(),
	}); err != nil {
		return fmt.Errorf("failed to bind configuration: %w", err)
	}
	return nil
}

// getDecodeHook returns the composite decode hook for all type conversions
func getDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		// Network types
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),
		stringToURLHookFunc(),

		// Standard hooks
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}

		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}

		return ip, nil
	}
}

// stringToNetIPNetHookFunc handles net.IPNet conversion
func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(net.IPNet{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 49 { // Max IPv6 CIDR length
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}
