// pkg/status/status.go - installed version detection for the redistributable
// and the vendor COM component.

package status

import (
	"context"
	"errors"
	"regexp"
	"strings"

	version "github.com/hashicorp/go-version"

	"github.com/windowsadmins/skcom/pkg/extract"
	"github.com/windowsadmins/skcom/pkg/logging"
	"github.com/windowsadmins/skcom/pkg/process"
)

const (
	// VCRedistKeyPath holds the Visual C++ 2010 x64 redistributable version
	// as a string like "v10.0.40219.325".
	VCRedistKeyPath   = `SOFTWARE\WOW6432Node\Microsoft\VisualStudio\10.0\VC\VCRedist\x64`
	VCRedistValueName = "Version"

	// TypeLibKeyPath is searched for type libraries that point at the component DLL.
	TypeLibKeyPath = `HKLM\SOFTWARE\Classes\TypeLib`
	SKCOMDLLName   = "SKCOM.dll"
)

// ErrNotFound is returned by a RegistryReader when the key or value is absent.
var ErrNotFound = errors.New("registry key or value not found")

// RegistryReader reads string values under HKEY_LOCAL_MACHINE.
type RegistryReader interface {
	StringValue(keyPath, valueName string) (string, error)
}

// CommandRunner runs a non-elevated command and captures its output.
type CommandRunner interface {
	RunPlain(ctx context.Context, cmd process.Command) (process.Result, error)
}

var (
	fourPartVersion = regexp.MustCompile(`^\d+(\.\d+){3}$`)
	typeLibDLLLine  = regexp.MustCompile(`(?i)^.+REG_SZ\s+(.+` + regexp.QuoteMeta(SKCOMDLLName) + `)\s*$`)
)

// Inspector reads installed versions. Lookup failures never escape: a
// missing or malformed version is reported as ZeroVersion.
type Inspector struct {
	Registry RegistryReader
	Runner   CommandRunner
	Files    extract.FileVersionReader
}

// NewInspector returns an Inspector backed by the system registry, the given
// runner and the system file version reader.
func NewInspector(runner CommandRunner) *Inspector {
	return &Inspector{
		Registry: SystemRegistry{},
		Runner:   runner,
		Files:    extract.NewFileVersionReader(),
	}
}

// VCRedistVersion returns the installed redistributable version.
func (i *Inspector) VCRedistVersion() *version.Version {
	raw, err := i.Registry.StringValue(VCRedistKeyPath, VCRedistValueName)
	if err != nil {
		logging.Debug("Redistributable version not found", "key", VCRedistKeyPath, "error", err)
		return ZeroVersion()
	}

	pkgVer := strings.TrimPrefix(strings.TrimSpace(raw), "v")
	if !fourPartVersion.MatchString(pkgVer) {
		logging.Debug("Redistributable version malformed", "value", raw)
		return ZeroVersion()
	}
	return ParseVersion(pkgVer)
}

// SKCOMVersion searches registered type libraries for the component DLL and
// returns the file version of the first candidate that can be read.
func (i *Inspector) SKCOMVersion(ctx context.Context) *version.Version {
	cmd := process.NewCommand("reg", "query", TypeLibKeyPath, "/s", "/f", SKCOMDLLName)
	res, err := i.Runner.RunPlain(ctx, cmd)
	if err != nil {
		logging.Debug("Type library search failed", "error", err)
		return ZeroVersion()
	}

	for _, dllPath := range matchDLLPaths(res.Output) {
		raw, err := i.Files.FileVersion(dllPath)
		if err != nil {
			logging.Debug("Skipping component candidate", "path", dllPath, "error", err)
			continue
		}
		v, err := version.NewVersion(strings.TrimSpace(raw))
		if err != nil {
			logging.Debug("Skipping component candidate with unparsable version", "path", dllPath, "version", raw)
			continue
		}
		logging.Debug("Found registered component", "path", dllPath, "version", v.String())
		return v
	}
	return ZeroVersion()
}

// matchDLLPaths extracts DLL paths from `reg query` output lines of the form
// "    (Default)    REG_SZ    C:\...\SKCOM.dll".
func matchDLLPaths(output string) []string {
	var paths []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if m := typeLibDLLLine.FindStringSubmatch(line); m != nil {
			paths = append(paths, strings.TrimSpace(m[1]))
		}
	}
	return paths
}
