// FILE: lixenwraith/envhanced/store.go
package envhanced

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"dario.cat/mergo"
	"go.uber.org/zap"
)

// entry holds the coerced value of one name and the layer it came from
type entry struct {
	value  Value
	source Source
}

// Store merges the dotenv files, the process environment and caller overrides
// into one namespace of coerced values.
type Store struct {
	opts   Options
	logger *zap.Logger

	mutex    sync.RWMutex                 // Protects the fields below
	layers   map[Source]map[string]string // Raw values per source from the last reload
	entries  map[string]entry             // Merged and coerced values
	loadErrs []error                      // Unreadable files seen by the last reload

	watcher *watcher
}

// New creates a Store and performs the initial reload.
func New(opts Options) *Store {
	opts = opts.withDefaults()
	if opts.Additional != nil {
		opts.Additional = copyStringMap(opts.Additional)
	}
	s := &Store{
		opts:    opts,
		logger:  opts.Logger,
		layers:  make(map[Source]map[string]string),
		entries: make(map[string]entry),
	}
	s.Reload()
	return s
}

// Reload re-reads every source and replaces the merged state in one step.
// It never fails: a missing file is an empty layer, and a file that exists but
// cannot be read is logged, treated as empty and reported by LoadErrors.
func (s *Store) Reload() {
	// -- 1. Read sources (No Lock)
	layers := make(map[Source]map[string]string, len(precedence))
	var loadErrs []error

	for _, source := range fileSources {
		path := s.opts.Path(source)
		values, err := s.opts.Reader.ReadFile(path)
		if err != nil {
			s.logger.Warn("failed to read config file",
				zap.String("source", string(source)),
				zap.String("path", path),
				zap.Error(err))
			loadErrs = append(loadErrs, fmt.Errorf("failed to read %s file '%s': %w", source, path, err))
			values = nil
		}
		layers[source] = copyStringMap(values)
	}
	layers[SourceProcess] = copyStringMap(s.opts.Environment.Snapshot())
	layers[SourceAdditional] = copyStringMap(s.opts.Additional)

	// -- 2. Merge and coerce (No Lock)
	merged, origin, err := mergeLayers(layers)
	if err != nil {
		s.logger.Error("failed to merge config sources", zap.Error(err))
		loadErrs = append(loadErrs, err)
	}

	entries := make(map[string]entry, len(merged))
	for name, raw := range merged {
		entries[name] = entry{value: Coerce(raw), source: origin[name]}
	}

	// -- 3. Swap state (Write-Lock)
	s.mutex.Lock()
	s.layers = layers
	s.entries = entries
	s.loadErrs = loadErrs
	s.mutex.Unlock()

	s.logger.Debug("configuration reloaded",
		zap.Int("settings", len(entries)),
		zap.Int("defaults", len(layers[SourceDefaults])),
		zap.Int("environ", len(layers[SourceEnviron])),
		zap.Int("secrets", len(layers[SourceSecrets])),
		zap.Int("process", len(layers[SourceProcess])),
		zap.Int("additional", len(layers[SourceAdditional])))
}

// mergeLayers folds the layers in precedence order. Keys from every layer are
// kept and a later layer replaces earlier values, including with the empty
// string. Do not add WithOverwriteWithEmptyValue: on maps it also deletes keys
// the later layer does not define.
func mergeLayers(layers map[Source]map[string]string) (map[string]string, map[string]Source, error) {
	merged := make(map[string]string)
	origin := make(map[string]Source)
	var errs []error

	for _, source := range precedence {
		layer := layers[source]
		if len(layer) == 0 {
			continue
		}
		if err := mergo.Merge(&merged, layer, mergo.WithOverride); err != nil {
			errs = append(errs, fmt.Errorf("failed to merge %s values: %w", source, err))
			continue
		}
		for name := range layer {
			origin[name] = source
		}
	}

	return merged, origin, errors.Join(errs...)
}

// lookup returns the entry for name or a *NotFoundError
func (s *Store) lookup(name string) (entry, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	e, ok := s.entries[name]
	if !ok {
		return entry{}, &NotFoundError{Name: name}
	}
	return e, nil
}

// Get returns the coerced value of name: bool, int64, float64, string,
// map[string]any or []any. A missing name returns an error matching
// ErrSettingNotFound.
func (s *Store) Get(name string) (any, error) {
	v, err := s.Value(name)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Value returns the tagged coerced value of name.
func (s *Store) Value(name string) (Value, error) {
	e, err := s.lookup(name)
	if err != nil {
		return Value{}, err
	}
	return e.value.detached(), nil
}

// Raw returns the winning raw string for name, before coercion.
func (s *Store) Raw(name string) (string, error) {
	e, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	return e.value.raw, nil
}

// SourceOf returns the layer that supplied the current value of name.
func (s *Store) SourceOf(name string) (Source, error) {
	e, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	return e.source, nil
}

// Has reports whether any source defines name
func (s *Store) Has(name string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, ok := s.entries[name]
	return ok
}

// Names returns every configured name, sorted.
func (s *Store) Names() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of configured names
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.entries)
}

// Values returns a snapshot of all coerced values keyed by name.
// The returned map and any structured values in it are owned by the caller.
func (s *Store) Values() map[string]any {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make(map[string]any, len(s.entries))
	for name, e := range s.entries {
		out[name] = e.value.detached().Interface()
	}
	return out
}

// RawValues returns a snapshot of the merged raw strings keyed by name.
func (s *Store) RawValues() map[string]string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make(map[string]string, len(s.entries))
	for name, e := range s.entries {
		out[name] = e.value.raw
	}
	return out
}

// Layer returns a copy of the raw values one source supplied on the last reload.
func (s *Store) Layer(source Source) map[string]string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return copyStringMap(s.layers[source])
}

// LoadErrors returns the read failures of the last reload joined together,
// or nil when every file was either readable or absent.
func (s *Store) LoadErrors() error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return errors.Join(s.loadErrs...)
}

// Options returns the resolved options the store was built with
func (s *Store) Options() Options {
	return s.opts
}

// snapshot returns the coerced values for change detection
func (s *Store) snapshot() map[string]Value {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make(map[string]Value, len(s.entries))
	for name, e := range s.entries {
		out[name] = e.value
	}
	return out
}

// detached returns a Value whose structured payload is not shared with the store.
func (v Value) detached() Value {
	if v.kind != KindStructured {
		return v
	}
	return Coerce(v.raw)
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
