// FILE: lixenwraith/envhanced/convenience.go
package envhanced

import (
	"fmt"
	"sort"
	"strings"
)

// Quick creates a Store for the dotenv files in dir with default options
func Quick(dir string) *Store {
	opts := DefaultOptions()
	opts.Dir = dir
	return New(opts)
}

// QuickWithOverrides is Quick with a highest-precedence override layer
func QuickWithOverrides(dir string, overrides map[string]string) *Store {
	opts := DefaultOptions()
	opts.Dir = dir
	opts.Additional = overrides
	return New(opts)
}

// MustQuick is like Quick but panics if any of the required names is missing
func MustQuick(dir string, required ...string) *Store {
	s := Quick(dir)
	if err := s.Validate(required...); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
	return s
}

// Validate checks that every name is configured by at least one source.
// An empty value counts as configured.
func (s *Store) Validate(required ...string) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var missing []string
	for _, name := range required {
		if _, exists := s.entries[name]; !exists {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}

	return nil
}

// Debug returns a formatted string showing all configuration values and their sources.
// Values from the secrets layer are masked.
func (s *Store) Debug() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	b.WriteString(fmt.Sprintf("Precedence: %v\n", precedence))
	for _, source := range fileSources {
		b.WriteString(fmt.Sprintf("%s file: %s\n", source, s.opts.Path(source)))
	}
	b.WriteString("Current values:\n")

	for _, name := range names {
		e := s.entries[name]
		b.WriteString(fmt.Sprintf("  %s:\n", name))
		b.WriteString(fmt.Sprintf("    Current: %s (%s)\n", maskValue(e.source, e.value.String()), e.value.Kind()))
		b.WriteString(fmt.Sprintf("    Source: %s\n", e.source))

		for _, source := range precedence {
			if raw, ok := s.layers[source][name]; ok {
				b.WriteString(fmt.Sprintf("    %s: %s\n", source, maskValue(source, raw)))
			}
		}
	}

	return b.String()
}

func maskValue(source Source, value string) string {
	if source == SourceSecrets {
		return "********"
	}
	return value
}

// Clone creates a detached copy of the store that shares options but not state.
// The clone does not inherit a running watcher.
func (s *Store) Clone() *Store {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	clone := &Store{
		opts:     s.opts,
		logger:   s.logger,
		layers:   make(map[Source]map[string]string, len(s.layers)),
		entries:  make(map[string]entry, len(s.entries)),
		loadErrs: append([]error(nil), s.loadErrs...),
	}

	if s.opts.Additional != nil {
		clone.opts.Additional = copyStringMap(s.opts.Additional)
	}
	for source, layer := range s.layers {
		clone.layers[source] = copyStringMap(layer)
	}
	for name, e := range s.entries {
		clone.entries[name] = entry{value: e.value.detached(), source: e.source}
	}

	return clone
}
