//go:build !windows

package extract

import "fmt"

// NewFileVersionReader returns a reader that always reports the version as
// unavailable; version resources are a Windows concept.
func NewFileVersionReader() FileVersionReader {
	return FileVersionFunc(func(path string) (string, error) {
		return "", fmt.Errorf("%w: %s: unsupported platform", ErrVersionUnavailable, path)
	})
}
