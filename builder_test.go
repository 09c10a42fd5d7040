// FILE: lixenwraith/envhanced/builder_test.go
package envhanced

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuilder(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"defaults.env": "PORT=8080\nHOST=localhost\n",
		"environ.env":  "PORT=9090\n",
	})

	t.Run("AllOptions", func(t *testing.T) {
		other := t.TempDir()
		writeFiles(t, other, map[string]string{
			"custom-secrets.env": "TOKEN=abc\n",
			"custom-environ.env": "PORT=9191\n",
		})
		core, logs := observer.New(zapcore.DebugLevel)

		s, err := NewBuilder().
			WithDir(tmpDir).
			WithEnvironFile(filepath.Join(other, "custom-environ.env")).
			WithSecretsFile(filepath.Join(other, "custom-secrets.env")).
			WithEnvironment(MapEnvironment{"HOST": "env-host"}).
			WithOverrides(map[string]string{"A": "1"}).
			WithOverride("B", "2").
			WithLogger(zap.New(core)).
			Build()
		require.NoError(t, err)

		port, _ := s.Int64("PORT")
		assert.Equal(t, int64(9191), port)
		host, _ := s.String("HOST")
		assert.Equal(t, "env-host", host)
		token, _ := s.String("TOKEN")
		assert.Equal(t, "abc", token)
		assert.Equal(t, map[string]string{"A": "1", "B": "2"}, s.Layer(SourceAdditional))

		assert.Equal(t, 1, logs.FilterMessage("configuration reloaded").Len())
	})

	t.Run("DefaultsFile", func(t *testing.T) {
		other := t.TempDir()
		writeFiles(t, other, map[string]string{"base.env": "ONLY=here\n"})

		s, err := NewBuilder().
			WithDir(tmpDir).
			WithDefaultsFile(filepath.Join(other, "base.env")).
			WithEnvironment(MapEnvironment{}).
			Build()
		require.NoError(t, err)
		assert.False(t, s.Has("HOST"))
		assert.True(t, s.Has("ONLY"))
	})

	t.Run("CustomReader", func(t *testing.T) {
		var paths []string
		reader := FileReaderFunc(func(path string) (map[string]string, error) {
			paths = append(paths, path)
			return map[string]string{"FROM": filepath.Base(path)}, nil
		})

		s, err := NewBuilder().
			WithDir("/cfg").
			WithReader(reader).
			WithEnvironment(MapEnvironment{}).
			Build()
		require.NoError(t, err)

		assert.Equal(t, []string{
			filepath.Join("/cfg", "defaults.env"),
			filepath.Join("/cfg", "environ.env"),
			filepath.Join("/cfg", "secrets.env"),
		}, paths)
		from, _ := s.Get("FROM")
		assert.Equal(t, "secrets.env", from)
	})

	t.Run("NilCapabilities", func(t *testing.T) {
		_, err := NewBuilder().WithReader(nil).Build()
		assert.Error(t, err)

		_, err = NewBuilder().WithEnvironment(nil).Build()
		assert.Error(t, err)
	})

	t.Run("Required", func(t *testing.T) {
		_, err := NewBuilder().
			WithDir(tmpDir).
			WithEnvironment(MapEnvironment{}).
			WithRequired("PORT", "DATABASE_URL").
			Build()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingRequired)
		assert.Contains(t, err.Error(), "DATABASE_URL")
		assert.NotContains(t, err.Error(), "PORT")
	})

	t.Run("Validators", func(t *testing.T) {
		var order []int
		errPort := errors.New("port too low")

		_, err := NewBuilder().
			WithDir(tmpDir).
			WithEnvironment(MapEnvironment{}).
			WithValidator(func(s *Store) error {
				order = append(order, 1)
				return nil
			}).
			WithValidator(nil).
			WithValidator(func(s *Store) error {
				order = append(order, 2)
				port, err := s.Int64("PORT")
				if err != nil {
					return err
				}
				if port < 10000 {
					return errPort
				}
				return nil
			}).
			Build()

		require.Error(t, err)
		assert.ErrorIs(t, err, errPort)
		assert.Contains(t, err.Error(), "configuration validation failed")
		assert.Equal(t, []int{1, 2}, order)
	})

	t.Run("MustBuild", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewBuilder().WithDir(tmpDir).WithEnvironment(MapEnvironment{}).MustBuild()
		})
		assert.Panics(t, func() {
			NewBuilder().WithDir(tmpDir).WithEnvironment(MapEnvironment{}).WithRequired("NOPE").MustBuild()
		})
	})

	t.Run("BuildAndScan", func(t *testing.T) {
		var cfg struct {
			Port int    `env:"PORT"`
			Host string `env:"HOST"`
		}
		s, err := NewBuilder().
			WithDir(tmpDir).
			WithEnvironment(MapEnvironment{}).
			BuildAndScan(&cfg)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "localhost", cfg.Host)
	})
}
