// pkg/process/process.go - elevated and plain external command execution.

package process

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/windowsadmins/skcom/pkg/codepage"
	"github.com/windowsadmins/skcom/pkg/logging"
)

const (
	commandPowerShell = "powershell.exe"
	commandCmd        = "cmd"
)

// ErrLaunchFailed is returned when the launcher itself could not start the
// target, or, for elevated runs, reported a non-zero status.
var ErrLaunchFailed = errors.New("process launch failed")

// Result is the outcome of a run. Output is decoded from the console code
// page. Captured is false for elevated runs, whose output is never piped back.
type Result struct {
	Output   string
	ExitCode int
	Captured bool
}

// Launcher starts a program and waits for it. The returned error is reserved
// for failures to start; a program that ran and exited non-zero reports its
// status through exitCode.
type Launcher interface {
	Launch(ctx context.Context, program string, args []string) (output []byte, exitCode int, err error)
}

// Options tunes an elevated run.
type Options struct {
	// Wait makes Start-Process block until the elevated program exits.
	Wait bool
}

// Runner executes commands through a Launcher.
type Runner struct {
	launcher Launcher
}

// NewRunner returns a Runner using the given Launcher, or the operating
// system launcher when nil.
func NewRunner(l Launcher) *Runner {
	if l == nil {
		l = ExecLauncher{}
	}
	return &Runner{launcher: l}
}

// RunElevated launches cmd through PowerShell Start-Process with -Verb RunAs,
// which shows the UAC prompt. Unless opts.Wait is set the call returns as soon
// as the launcher does, which may be before the target finishes.
func (r *Runner) RunElevated(ctx context.Context, cmd Command, opts Options) (Result, error) {
	args := elevatedArgs(cmd, opts)
	logging.Debug("Launching elevated command", "command", cmd.String())

	_, code, err := r.launcher.Launch(ctx, commandPowerShell, args)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrLaunchFailed, cmd.Program, err)
	}
	if code != 0 {
		logging.Warn("Elevated launch reported failure", "command", cmd.String(), "exit_code", code)
		return Result{ExitCode: code}, fmt.Errorf("%w: %s exited with status %d", ErrLaunchFailed, commandPowerShell, code)
	}
	return Result{ExitCode: code}, nil
}

// RunPlain launches cmd through `cmd /C` and captures its stdout. A non-zero
// status is reported in Result.ExitCode and is not an error; callers that
// need to detect a failed wrapped command should inspect the output as well,
// since some console tools exit zero on failure.
func (r *Runner) RunPlain(ctx context.Context, cmd Command) (Result, error) {
	args := append([]string{"/C"}, cmd.Tokens()...)
	logging.Debug("Running command", "command", cmd.String())

	out, code, err := r.launcher.Launch(ctx, commandCmd, args)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrLaunchFailed, cmd.Program, err)
	}
	if code != 0 {
		logging.Debug("Command exited non-zero", "command", cmd.String(), "exit_code", code)
	}
	return Result{
		Output:   codepage.DecodeConsole(out),
		ExitCode: code,
		Captured: true,
	}, nil
}

// elevatedArgs builds the powershell.exe argument vector for Start-Process.
func elevatedArgs(cmd Command, opts Options) []string {
	args := []string{
		"-NoProfile",
		"-NonInteractive",
		"-Command",
		"Start-Process",
		"-FilePath", psLiteral(cmd.Program),
	}
	if len(cmd.Args) > 0 {
		quoted := make([]string, 0, len(cmd.Args))
		for _, a := range cmd.Args {
			quoted = append(quoted, psLiteral(quoteArg(a)))
		}
		args = append(args, "-ArgumentList", strings.Join(quoted, ","))
	}
	args = append(args, "-Verb", "RunAs")
	if opts.Wait {
		args = append(args, "-Wait")
	}
	return args
}

// psLiteral renders s as a PowerShell single-quoted string.
func psLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteArg wraps arguments containing whitespace or quotes in double quotes,
// because Start-Process joins -ArgumentList with plain spaces.
func quoteArg(a string) string {
	if a == "" {
		return `""`
	}
	if !strings.ContainsAny(a, " \t\"") {
		return a
	}
	return `"` + strings.ReplaceAll(a, `"`, `\"`) + `"`
}
