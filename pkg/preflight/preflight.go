// pkg/preflight/preflight.go - host checks before any install runs.

package preflight

import (
	"errors"
	"fmt"
	"strings"

	"github.com/windowsadmins/skcom/pkg/logging"
)

// ErrUnsupportedArch is returned on hosts that cannot load the 64-bit components.
var ErrUnsupportedArch = errors.New("64-bit Windows is required")

// Report describes the host.
type Report struct {
	OSArchitecture string
	Elevated       bool
}

// Is64Bit reports whether the OS architecture string names a 64-bit OS.
// Windows localizes the value ("64-bit", "64 位元"), so only the digits count.
func (r Report) Is64Bit() bool {
	return strings.Contains(r.OSArchitecture, "64")
}

// Evaluate turns a Report into a go/no-go decision and logs what the user
// should expect.
func Evaluate(r Report) error {
	if !r.Is64Bit() {
		logging.Error("Unsupported operating system architecture", "arch", r.OSArchitecture)
		return fmt.Errorf("%w: detected %q", ErrUnsupportedArch, r.OSArchitecture)
	}
	if !r.Elevated {
		logging.Info("Not running elevated; installers will show a UAC prompt")
	}
	return nil
}

// RunPreflight inspects the host and evaluates the result.
func RunPreflight() (Report, error) {
	r, err := Inspect()
	if err != nil {
		return r, fmt.Errorf("preflight inspection failed: %w", err)
	}
	logging.Debug("Preflight report", "arch", r.OSArchitecture, "elevated", r.Elevated)
	return r, Evaluate(r)
}
