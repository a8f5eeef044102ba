//go:build windows

package preflight

import (
	"fmt"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows"
)

type win32OperatingSystem struct {
	OSArchitecture string
}

// Inspect queries WMI for the OS architecture and the process token for elevation.
func Inspect() (Report, error) {
	var systems []win32OperatingSystem
	if err := wmi.Query("SELECT OSArchitecture FROM Win32_OperatingSystem", &systems); err != nil {
		return Report{}, fmt.Errorf("WMI query failed: %w", err)
	}
	if len(systems) == 0 {
		return Report{}, fmt.Errorf("no Win32_OperatingSystem instance returned")
	}

	return Report{
		OSArchitecture: systems[0].OSArchitecture,
		Elevated:       windows.GetCurrentProcessToken().IsElevated(),
	}, nil
}
