// pkg/extract/archive.go - selective, flattened extraction of the component archive.

package extract

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/windowsadmins/skcom/pkg/codepage"
	"github.com/windowsadmins/skcom/pkg/logging"
)

// X64DLLPattern matches the 64-bit DLLs in the vendor archive ("元件" is the
// component folder).
var X64DLLPattern = regexp.MustCompile(`^元件/x64/.+\.(?i:dll)$`)

// Entry is an archive member with its decoded display name.
type Entry struct {
	File *zip.File
	Name string
}

// SelectEntries decodes every entry name and keeps the files whose decoded
// name matches pattern. A name that cannot be decoded is an error.
func SelectEntries(files []*zip.File, pattern *regexp.Regexp) ([]Entry, error) {
	var selected []Entry
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		name, err := codepage.DecodeEntryName(f.Name, f.NonUTF8)
		if err != nil {
			return nil, err
		}
		if pattern.MatchString(name) {
			selected = append(selected, Entry{File: f, Name: name})
		}
	}
	return selected, nil
}

// ExtractFlat writes the entries of zipPath matching pattern into destDir,
// keeping only each entry's final path segment. It returns the written paths.
func ExtractFlat(zipPath, destDir string, pattern *regexp.Regexp) ([]string, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", zipPath, err)
	}
	defer zr.Close()

	entries, err := SelectEntries(zr.File, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive %s: %w", zipPath, err)
	}

	var written []string
	for _, e := range entries {
		base := path.Base(e.Name)
		if base == "." || base == ".." || base == "/" {
			continue
		}
		dest := filepath.Join(destDir, base)
		if err := extractEntry(e.File, dest); err != nil {
			return written, err
		}
		logging.Debug("Extracted archive entry", "entry", e.Name, "destination", dest)
		written = append(written, dest)
	}
	return written, nil
}

// extractEntry streams one archive member to dest.
func extractEntry(zf *zip.File, dest string) error {
	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry: %w", err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("failed to extract to %s: %w", dest, err)
	}
	return out.Close()
}
