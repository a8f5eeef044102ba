// pkg/version/version.go - build information for skcomsetup, set through -ldflags.

package version

import (
	"fmt"
	"io"
)

// These values are private which ensures they can only be set with the build flags.
var (
	version   = "dev"
	revision  = "unknown"
	goVersion = "unknown"
	buildDate = "unknown"
	appName   = "skcomsetup"
)

// Info is a structure with version build information about the current application.
type Info struct {
	AppName   string `json:"app_name"`
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	GoVersion string `json:"go_version"`
	BuildDate string `json:"build_date"`
}

// Version returns a structure with the current version information.
func Version() Info {
	return Info{
		AppName:   appName,
		Version:   version,
		Revision:  revision,
		GoVersion: goVersion,
		BuildDate: buildDate,
	}
}

// String is the one-line "name version" form.
func (i Info) String() string {
	return fmt.Sprintf("%s %s", i.AppName, i.Version)
}

// Fprint writes the version line, with build details when full is set.
func Fprint(w io.Writer, full bool) {
	v := Version()
	fmt.Fprintln(w, v.String())
	if !full {
		return
	}
	fmt.Fprintf(w, "  revision: \t%s\n", v.Revision)
	fmt.Fprintf(w, "  build date: \t%s\n", v.BuildDate)
	fmt.Fprintf(w, "  go version: \t%s\n", v.GoVersion)
}
