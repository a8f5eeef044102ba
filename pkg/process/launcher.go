// pkg/process/launcher.go - operating system launcher.

package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// ExecLauncher runs programs with os/exec, hiding the console window on
// Windows. Only stdout is captured.
type ExecLauncher struct{}

// Launch implements Launcher.
func (ExecLauncher) Launch(ctx context.Context, program string, args []string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	hideConsoleWindow(cmd)

	var out bytes.Buffer
	cmd.Stdout = &out

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out.Bytes(), exitErr.ExitCode(), nil
		}
		return out.Bytes(), -1, err
	}
	return out.Bytes(), 0, nil
}
