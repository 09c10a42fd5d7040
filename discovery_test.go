// FILE: lixenwraith/envhanced/discovery_test.go
package envhanced

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverDir(t *testing.T) {
	withFiles := t.TempDir()
	writeFiles(t, withFiles, map[string]string{"environ.env": "FOUND=yes\n"})
	empty := t.TempDir()

	t.Run("EnvVarWins", func(t *testing.T) {
		t.Setenv("ENVHANCEDTEST_CONFIG_DIR", "/explicit/dir")
		dir, ok := DiscoverDir(DiscoveryOptions{
			EnvVar: "ENVHANCEDTEST_CONFIG_DIR",
			Paths:  []string{withFiles},
		})
		require.True(t, ok)
		assert.Equal(t, "/explicit/dir", dir)
	})

	t.Run("FirstPathWithAnyFile", func(t *testing.T) {
		dir, ok := DiscoverDir(DiscoveryOptions{Paths: []string{empty, withFiles}})
		require.True(t, ok)
		assert.Equal(t, withFiles, dir)
	})

	t.Run("NothingFound", func(t *testing.T) {
		_, ok := DiscoverDir(DiscoveryOptions{Paths: []string{empty}})
		assert.False(t, ok)
	})

	t.Run("XDGConfigHome", func(t *testing.T) {
		xdg := t.TempDir()
		appDir := filepath.Join(xdg, "envhancedtest")
		require.NoError(t, os.MkdirAll(appDir, 0755))
		writeFiles(t, appDir, map[string]string{"defaults.env": "A=1\n"})

		t.Setenv("XDG_CONFIG_HOME", xdg)
		t.Setenv("XDG_CONFIG_DIRS", empty)

		dir, ok := DiscoverDir(DiscoveryOptions{Name: "envhancedtest", UseXDG: true})
		require.True(t, ok)
		assert.Equal(t, appDir, dir)
	})

	t.Run("DefaultOptions", func(t *testing.T) {
		opts := DefaultDiscoveryOptions("myapp")
		assert.Equal(t, "MYAPP_CONFIG_DIR", opts.EnvVar)
		assert.True(t, opts.UseXDG)
		assert.True(t, opts.UseCurrentDir)
	})

	t.Run("Builder", func(t *testing.T) {
		s, err := NewBuilder().
			WithDirDiscovery(DiscoveryOptions{Paths: []string{empty, withFiles}}).
			WithEnvironment(MapEnvironment{}).
			Build()
		require.NoError(t, err)
		assert.Equal(t, withFiles, s.Options().Dir)

		found, err := s.Get("FOUND")
		require.NoError(t, err)
		assert.Equal(t, "yes", found)
	})

	t.Run("BuilderKeepsDirWhenNothingFound", func(t *testing.T) {
		s, err := NewBuilder().
			WithDir(withFiles).
			WithDirDiscovery(DiscoveryOptions{Paths: []string{empty}}).
			WithEnvironment(MapEnvironment{}).
			Build()
		require.NoError(t, err)
		assert.Equal(t, withFiles, s.Options().Dir)
	})
}
