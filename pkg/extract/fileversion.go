// pkg/extract/fileversion.go - embedded file version lookup.

package extract

import (
	"errors"
	"fmt"
)

// ErrVersionUnavailable is returned when a file's version metadata cannot be read.
var ErrVersionUnavailable = errors.New("file version unavailable")

// FileVersionReader reads the version string embedded in a binary.
type FileVersionReader interface {
	FileVersion(path string) (string, error)
}

// FileVersionFunc adapts a function to FileVersionReader.
type FileVersionFunc func(path string) (string, error)

// FileVersion implements FileVersionReader.
func (f FileVersionFunc) FileVersion(path string) (string, error) { return f(path) }

// chainReader tries each reader in order and returns the first non-empty version.
type chainReader []FileVersionReader

func (c chainReader) FileVersion(path string) (string, error) {
	var errs []error
	for _, r := range c {
		v, err := r.FileVersion(path)
		if err == nil && v != "" {
			return v, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("%w: %s", ErrVersionUnavailable, path)
	}
	return "", fmt.Errorf("%w: %s: %v", ErrVersionUnavailable, path, errors.Join(errs...))
}
