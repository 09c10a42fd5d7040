// FILE: lixenwraith/envhanced/builder.go
package envhanced

import (
	"fmt"

	"go.uber.org/zap"
)

// ValidatorFunc defines the signature for a function that can validate a Store.
// It receives the fully loaded *Store and should return an error if validation fails.
type ValidatorFunc func(s *Store) error

// Builder provides a fluent interface for building a Store
type Builder struct {
	opts       Options
	required   []string
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new store builder
func NewBuilder() *Builder {
	return &Builder{
		opts:       DefaultOptions(),
		validators: make([]ValidatorFunc, 0),
	}
}

// WithDir sets the base directory for the dotenv files
func (b *Builder) WithDir(dir string) *Builder {
	b.opts.Dir = dir
	return b
}

// WithDefaultsFile overrides the path of the defaults file
func (b *Builder) WithDefaultsFile(path string) *Builder {
	b.opts.DefaultsPath = path
	return b
}

// WithEnvironFile overrides the path of the environ file
func (b *Builder) WithEnvironFile(path string) *Builder {
	b.opts.EnvironPath = path
	return b
}

// WithSecretsFile overrides the path of the secrets file
func (b *Builder) WithSecretsFile(path string) *Builder {
	b.opts.SecretsPath = path
	return b
}

// WithOverrides merges values into the highest-precedence layer
func (b *Builder) WithOverrides(values map[string]string) *Builder {
	if b.opts.Additional == nil {
		b.opts.Additional = make(map[string]string, len(values))
	}
	for k, v := range values {
		b.opts.Additional[k] = v
	}
	return b
}

// WithOverride sets a single highest-precedence value
func (b *Builder) WithOverride(name, value string) *Builder {
	return b.WithOverrides(map[string]string{name: value})
}

// WithReader sets the dotenv file reader
func (b *Builder) WithReader(r FileReader) *Builder {
	if r == nil {
		b.err = fmt.Errorf("file reader cannot be nil")
		return b
	}
	b.opts.Reader = r
	return b
}

// WithEnvironment sets the source of the process environment layer
func (b *Builder) WithEnvironment(env Environment) *Builder {
	if env == nil {
		b.err = fmt.Errorf("environment cannot be nil")
		return b
	}
	b.opts.Environment = env
	return b
}

// WithLogger sets the logger for reload and watch events
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.opts.Logger = logger
	return b
}

// WithTagName sets the struct tag used by Scan
func (b *Builder) WithTagName(tag string) *Builder {
	b.opts.TagName = tag
	return b
}

// WithRequired fails Build when any of the names is not configured
func (b *Builder) WithRequired(names ...string) *Builder {
	b.required = append(b.required, names...)
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the Store, performs the initial reload and runs validators
func (b *Builder) Build() (*Store, error) {
	if b.err != nil {
		return nil, b.err
	}

	s := New(b.opts)

	if len(b.required) > 0 {
		if err := s.Validate(b.required...); err != nil {
			return nil, err
		}
	}

	for _, validator := range b.validators {
		if err := validator(s); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return s, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Store {
	s, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return s
}

// BuildAndScan builds the store and decodes it into the provided target struct pointer
func (b *Builder) BuildAndScan(target any) (*Store, error) {
	s, err := b.Build()
	if err != nil {
		return nil, err
	}

	if err := s.Scan(target); err != nil {
		return nil, fmt.Errorf("failed to scan final config into target: %w", err)
	}

	return s, nil
}
