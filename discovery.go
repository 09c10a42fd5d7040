// FILE: lixenwraith/envhanced/discovery.go
package envhanced

import (
	"os"
	"path/filepath"
	"strings"
)

// DiscoveryOptions configures automatic base directory discovery
type DiscoveryOptions struct {
	// Name of the application, used for XDG sub-directories
	Name string

	// Custom search paths (checked before the defaults)
	Paths []string

	// Environment variable holding an explicit directory
	EnvVar string

	// Whether to search in XDG config directories
	UseXDG bool

	// Whether to search in current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns sensible defaults
func DefaultDiscoveryOptions(appName string) DiscoveryOptions {
	return DiscoveryOptions{
		Name:          appName,
		EnvVar:        strings.ToUpper(appName) + "_CONFIG_DIR",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// WithDirDiscovery sets the base directory to the first candidate that holds
// at least one of defaults.env, environ.env or secrets.env. The directory named
// by EnvVar wins without a file check. If nothing is found the directory is
// left unchanged.
func (b *Builder) WithDirDiscovery(opts DiscoveryOptions) *Builder {
	if dir, ok := DiscoverDir(opts); ok {
		b.opts.Dir = dir
	}
	return b
}

// DiscoverDir returns the first matching directory for opts
func DiscoverDir(opts DiscoveryOptions) (string, bool) {
	if opts.EnvVar != "" {
		if dir := os.Getenv(opts.EnvVar); dir != "" {
			return dir, true
		}
	}

	var searchPaths []string
	searchPaths = append(searchPaths, opts.Paths...)

	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}

	if opts.UseXDG && opts.Name != "" {
		searchPaths = append(searchPaths, getXDGConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		for _, source := range fileSources {
			if info, err := os.Stat(filepath.Join(dir, source.FileName())); err == nil && !info.IsDir() {
				return dir, true
			}
		}
	}

	return "", false
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
