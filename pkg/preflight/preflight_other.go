//go:build !windows

package preflight

import (
	"os"
	"runtime"
)

// Inspect reports the Go architecture and whether the process runs as root.
func Inspect() (Report, error) {
	arch := "32-bit"
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		arch = "64-bit"
	}
	return Report{
		OSArchitecture: arch,
		Elevated:       os.Geteuid() == 0,
	}, nil
}
