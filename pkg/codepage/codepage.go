// pkg/codepage/codepage.go - legacy Windows code page conversions.
//
// Console tools on Traditional Chinese Windows (reg, tasklist, powershell)
// write their output in code page 950. The vendor ships its API archive with
// Big5 entry names and without the ZIP UTF-8 flag, so readers that follow the
// ZIP default decode those names as code page 437.

package codepage

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/traditionalchinese"
)

var (
	// Console is the code page of console output (CP950, Big5).
	Console encoding.Encoding = traditionalchinese.Big5

	// ArchiveRead is the code page ZIP readers assume for names without the UTF-8 flag.
	ArchiveRead encoding.Encoding = charmap.CodePage437

	// ArchiveWrite is the code page the vendor packer actually wrote names in.
	ArchiveWrite encoding.Encoding = traditionalchinese.Big5
)

// ErrUnrepresentable is returned when a name cannot be carried between code pages.
var ErrUnrepresentable = errors.New("name not representable in target code page")

// DecodeConsole converts console output bytes to UTF-8. Bytes that are not
// valid in the console code page become U+FFFD rather than failing the call.
func DecodeConsole(b []byte) string {
	out, err := Console.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// DecodeEntryName returns the display name of an archive entry. Go's
// archive/zip passes raw name bytes through and flags them as nonUTF8, so
// those bytes are decoded as Big5 directly. Names that arrive valid and
// flagged as UTF-8 are returned unchanged.
func DecodeEntryName(name string, nonUTF8 bool) (string, error) {
	if !nonUTF8 && utf8.ValidString(name) {
		return name, nil
	}
	out, err := ArchiveWrite.NewDecoder().String(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnrepresentable, name, err)
	}
	return out, nil
}

// RecodeEntryName undoes a CP437 decode performed by a ZIP reader: the name
// is encoded back to CP437 bytes and then decoded as Big5.
func RecodeEntryName(name437 string) (string, error) {
	raw, err := ArchiveRead.NewEncoder().String(name437)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnrepresentable, name437, err)
	}
	return DecodeEntryName(raw, true)
}
