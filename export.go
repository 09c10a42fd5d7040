// FILE: lixenwraith/envhanced/export.go
package envhanced

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding used by Export and Save
type Format string

const (
	// FormatEnv writes raw values as KEY="value" lines
	FormatEnv Format = "env"
	// FormatTOML writes coerced values as a TOML table
	FormatTOML Format = "toml"
	// FormatYAML writes coerced values as a YAML mapping
	FormatYAML Format = "yaml"
	// FormatJSON writes coerced values as an indented JSON object
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from the file extension, or "" when unknown
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".env":
		return FormatEnv
	case ".toml", ".tml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return ""
}

// Export writes the merged configuration to w.
func (s *Store) Export(w io.Writer, format Format) error {
	return encodeValues(w, format, s.RawValues())
}

// ExportSource writes the values one source supplied on the last reload.
func (s *Store) ExportSource(w io.Writer, source Source, format Format) error {
	return encodeValues(w, format, s.Layer(source))
}

// Save writes the merged configuration to path atomically. An empty format
// is detected from the file extension.
func (s *Store) Save(path string, format Format) error {
	return saveValues(path, format, s.RawValues())
}

// SaveSource writes the values of one source to path atomically.
func (s *Store) SaveSource(path string, source Source, format Format) error {
	return saveValues(path, format, s.Layer(source))
}

func saveValues(path string, format Format, raw map[string]string) error {
	if format == "" {
		format = FormatFromPath(path)
	}

	var buf bytes.Buffer
	if err := encodeValues(&buf, format, raw); err != nil {
		return err
	}

	return atomicWriteFile(path, buf.Bytes())
}

// encodeValues writes raw values for FormatEnv and coerced values otherwise.
func encodeValues(w io.Writer, format Format, raw map[string]string) error {
	if format == FormatEnv {
		content, err := godotenv.Marshal(raw)
		if err != nil {
			return fmt.Errorf("failed to marshal config data to env: %w", err)
		}
		if content != "" {
			content += "\n"
		}
		_, err = io.WriteString(w, content)
		return err
	}

	values := make(map[string]any, len(raw))
	for name, value := range raw {
		values[name] = Coerce(value).Interface()
	}

	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(values); err != nil {
			return fmt.Errorf("failed to marshal config data to TOML: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(values); err != nil {
			return fmt.Errorf("failed to marshal config data to YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to flush YAML encoder: %w", err)
		}
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(values); err != nil {
			return fmt.Errorf("failed to marshal config data to JSON: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return nil
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	// Secrets may end up in the output
	if err := os.Chmod(tempPath, 0600); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
