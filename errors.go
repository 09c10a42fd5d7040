// FILE: lixenwraith/envhanced/errors.go
package envhanced

import (
	"errors"
	"fmt"
)

var (
	// ErrSettingNotFound is returned by every lookup when the name is absent from all sources.
	ErrSettingNotFound = errors.New("configuration setting does not exist")

	// ErrTypeMismatch is returned by typed accessors when the stored value cannot be converted.
	ErrTypeMismatch = errors.New("configuration value has incompatible type")

	// ErrMissingRequired is returned by Validate and the builder's required check.
	ErrMissingRequired = errors.New("missing required configuration")

	// ErrUnsupportedFormat is returned by Export and Save for unknown formats.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// NotFoundError reports a lookup of a name that no source defines.
// It matches ErrSettingNotFound with errors.Is.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("configuration setting %q does not exist", e.Name)
}

// Is reports whether target is ErrSettingNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrSettingNotFound
}
