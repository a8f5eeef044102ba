// pkg/utils/paths.go - utility functions for working with file paths.

package utils

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// CheckDir expands a user-style path (e.g. `~\.skcom\lib`), creates the
// directory and any missing parents when absent, and returns its canonical
// absolute form. Calling it on an existing directory is not an error.
func CheckDir(usrPath string) (string, error) {
	expanded, err := homedir.Expand(usrPath)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %s: %w", usrPath, err)
	}

	if err := os.MkdirAll(expanded, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", expanded, err)
	}

	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s: %w", expanded, err)
	}

	// Resolve symlinks and junctions so repeated calls agree on one spelling.
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve real path for %s: %w", absPath, err)
	}
	return realPath, nil
}

// FileNameFromURL returns the final path segment of a URL, ignoring any
// query string or fragment.
func FileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return path.Base(rawURL)
	}
	return path.Base(u.Path)
}
