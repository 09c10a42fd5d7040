// FILE: lixenwraith/envhanced/source.go
package envhanced

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Source identifies one layer of the precedence chain
type Source string

const (
	// SourceDefaults represents values read from the defaults file
	SourceDefaults Source = "defaults"
	// SourceEnviron represents values read from the environ file
	SourceEnviron Source = "environ"
	// SourceSecrets represents values read from the secrets file
	SourceSecrets Source = "secrets"
	// SourceProcess represents the process environment
	SourceProcess Source = "process"
	// SourceAdditional represents overrides supplied by the caller
	SourceAdditional Source = "additional"
)

// precedence is the fixed layering order, lowest priority first.
var precedence = []Source{
	SourceDefaults,
	SourceEnviron,
	SourceSecrets,
	SourceProcess,
	SourceAdditional,
}

// fileSources are the layers backed by a dotenv file, in precedence order.
var fileSources = []Source{SourceDefaults, SourceEnviron, SourceSecrets}

// Precedence returns the layering order, lowest priority first.
func Precedence() []Source {
	out := make([]Source, len(precedence))
	copy(out, precedence)
	return out
}

// FileName returns the default file name for a file-backed source, or "" for
// sources that are not read from a file.
func (s Source) FileName() string {
	switch s {
	case SourceDefaults, SourceEnviron, SourceSecrets:
		return string(s) + ".env"
	default:
		return ""
	}
}

// FileReader reads one dotenv-style file into raw key/value pairs.
// A missing file must yield an empty map and a nil error.
type FileReader interface {
	ReadFile(path string) (map[string]string, error)
}

// FileReaderFunc adapts a plain function to FileReader
type FileReaderFunc func(path string) (map[string]string, error)

// ReadFile calls f(path)
func (f FileReaderFunc) ReadFile(path string) (map[string]string, error) {
	return f(path)
}

// DotenvReader reads files with github.com/joho/godotenv.
type DotenvReader struct{}

// ReadFile parses the file at path. Absent files produce an empty map.
func (DotenvReader) ReadFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return values, nil
}

// Environment provides a snapshot of environment variables.
type Environment interface {
	Snapshot() map[string]string
}

// EnvironmentFunc adapts a plain function to Environment
type EnvironmentFunc func() map[string]string

// Snapshot calls f()
func (f EnvironmentFunc) Snapshot() map[string]string {
	return f()
}

// OSEnvironment reads the current process environment.
type OSEnvironment struct{}

// Snapshot returns a fresh copy of os.Environ as a map
func (OSEnvironment) Snapshot() map[string]string {
	return environToMap(os.Environ())
}

// MapEnvironment is a fixed environment, mostly useful in tests.
type MapEnvironment map[string]string

// Snapshot returns a copy of the map
func (m MapEnvironment) Snapshot() map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// environToMap splits KEY=value pairs on the first '='.
func environToMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		// Windows keeps per-drive entries such as "=C:=C:\\"
		if strings.HasPrefix(kv, "=") {
			continue
		}
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = value
	}
	return out
}
