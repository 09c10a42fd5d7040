// FILE: lixenwraith/envhanced/options.go
package envhanced

import (
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultDir is the base directory used when Options.Dir is empty
const DefaultDir = "."

// DefaultTagName is the struct tag read by Scan
const DefaultTagName = "env"

// Options configures a Store
type Options struct {
	// Dir is the base directory for the three dotenv files
	// Default: "."
	Dir string

	// Explicit file paths. An empty path resolves to <Dir>/<source>.env
	DefaultsPath string
	EnvironPath  string
	SecretsPath  string

	// Additional values take precedence over every other source
	Additional map[string]string

	// Reader parses dotenv files
	// Default: DotenvReader
	Reader FileReader

	// Environment supplies the process environment layer
	// Default: OSEnvironment
	Environment Environment

	// Logger receives reload and watcher events
	// Default: no-op logger
	Logger *zap.Logger

	// TagName is the struct tag Scan uses to match names to fields
	// Default: "env"
	TagName string
}

// DefaultOptions returns options for the current directory and the real process environment
func DefaultOptions() Options {
	return Options{
		Dir:         DefaultDir,
		Reader:      DotenvReader{},
		Environment: OSEnvironment{},
		Logger:      zap.NewNop(),
		TagName:     DefaultTagName,
	}
}

// withDefaults fills every unset field.
func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = DefaultDir
	}
	if o.Reader == nil {
		o.Reader = DotenvReader{}
	}
	if o.Environment == nil {
		o.Environment = OSEnvironment{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.TagName == "" {
		o.TagName = DefaultTagName
	}
	return o
}

// Path returns the resolved file path of a file-backed source, or "" for the
// process and additional layers.
func (o Options) Path(source Source) string {
	var explicit string
	switch source {
	case SourceDefaults:
		explicit = o.DefaultsPath
	case SourceEnviron:
		explicit = o.EnvironPath
	case SourceSecrets:
		explicit = o.SecretsPath
	default:
		return ""
	}
	if explicit != "" {
		return explicit
	}
	dir := o.Dir
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, source.FileName())
}
