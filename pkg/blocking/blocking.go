// pkg/blocking/blocking.go - running process detection.

package blocking

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/windowsadmins/skcom/pkg/logging"
)

// IsAppRunning reports whether a process with the given image name (for
// example "vcredist_x64.exe") or full executable path is running. The match
// is case-insensitive and the ".exe" suffix is optional.
func IsAppRunning(ctx context.Context, appName string) (bool, error) {
	logging.Debug("Checking if application is running", "app", appName)

	processes, err := process.ProcessesWithContext(ctx)
	if err != nil {
		logging.Error("Failed to get process list", "error", err)
		return false, err
	}

	for _, proc := range processes {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if matchesApp(appName, name, func() string {
			exe, _ := proc.ExeWithContext(ctx)
			return exe
		}) {
			logging.Debug("Found running app", "app", appName, "pid", proc.Pid)
			return true, nil
		}
	}

	logging.Debug("Application not found running", "app", appName)
	return false, nil
}

// matchesApp compares a process against appName. exe is only called when
// appName is a path.
func matchesApp(appName, processName string, exe func() string) bool {
	cleanAppName := strings.ToLower(appName)
	processName = strings.ToLower(processName)

	if filepath.IsAbs(appName) || strings.HasPrefix(cleanAppName, `c:\`) {
		return strings.EqualFold(exe(), appName)
	}
	if strings.HasSuffix(cleanAppName, ".exe") {
		return processName == cleanAppName
	}
	return processName == cleanAppName || processName == cleanAppName+".exe"
}
