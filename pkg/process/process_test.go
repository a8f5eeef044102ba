package process

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/traditionalchinese"
)

type launchCall struct {
	program string
	args    []string
}

type fakeLauncher struct {
	calls  []launchCall
	output []byte
	code   int
	err    error
}

func (f *fakeLauncher) Launch(_ context.Context, program string, args []string) ([]byte, int, error) {
	f.calls = append(f.calls, launchCall{program: program, args: args})
	return f.output, f.code, f.err
}

func TestParseCommand(t *testing.T) {
	cmd := ParseCommand(`regsvr32  C:\lib\SKCOM.dll`)
	assert.Equal(t, "regsvr32", cmd.Program)
	assert.Equal(t, []string{`C:\lib\SKCOM.dll`}, cmd.Args)

	assert.Equal(t, Command{}, ParseCommand("   "))
}

func TestParseCommand_SplitsSpacedArguments(t *testing.T) {
	// Whitespace tokenizing cannot carry an argument with spaces.
	cmd := ParseCommand("tasklist /fi imagename eq vcredist_x64.exe")
	assert.Len(t, cmd.Args, 4)
}

func TestRunElevated_BuildsStartProcess(t *testing.T) {
	fl := &fakeLauncher{}
	r := NewRunner(fl)

	res, err := r.RunElevated(context.Background(), NewCommand(`C:\cache\vcredist_x64.exe`, "setup", "/passive"), Options{})
	require.NoError(t, err)
	assert.False(t, res.Captured)
	assert.Empty(t, res.Output)

	require.Len(t, fl.calls, 1)
	assert.Equal(t, "powershell.exe", fl.calls[0].program)
	assert.Equal(t, []string{
		"-NoProfile", "-NonInteractive", "-Command",
		"Start-Process",
		"-FilePath", `'C:\cache\vcredist_x64.exe'`,
		"-ArgumentList", `'setup','/passive'`,
		"-Verb", "RunAs",
	}, fl.calls[0].args)
}

func TestRunElevated_NoArgumentsAndWait(t *testing.T) {
	fl := &fakeLauncher{}
	r := NewRunner(fl)

	_, err := r.RunElevated(context.Background(), NewCommand("notepad.exe"), Options{Wait: true})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-NoProfile", "-NonInteractive", "-Command",
		"Start-Process", "-FilePath", `'notepad.exe'`,
		"-Verb", "RunAs", "-Wait",
	}, fl.calls[0].args)
}

func TestRunElevated_ArgumentsStayWhole(t *testing.T) {
	fl := &fakeLauncher{}
	r := NewRunner(fl)

	_, err := r.RunElevated(context.Background(), NewCommand("regsvr32", `C:\Users\O'Neil Chen\.skcom\lib\SKCOM.dll`), Options{})
	require.NoError(t, err)
	assert.Contains(t, fl.calls[0].args, `'"C:\Users\O''Neil Chen\.skcom\lib\SKCOM.dll"'`)
}

func TestRunElevated_NonZeroIsFailure(t *testing.T) {
	fl := &fakeLauncher{code: 1}
	r := NewRunner(fl)

	res, err := r.RunElevated(context.Background(), NewCommand("regsvr32", "x.dll"), Options{})
	assert.ErrorIs(t, err, ErrLaunchFailed)
	assert.Equal(t, 1, res.ExitCode)
}

func TestRunElevated_LaunchError(t *testing.T) {
	fl := &fakeLauncher{err: errors.New("executable file not found")}
	r := NewRunner(fl)

	_, err := r.RunElevated(context.Background(), NewCommand("regsvr32"), Options{})
	assert.ErrorIs(t, err, ErrLaunchFailed)
}

func TestRunPlain_WrapsAndDecodes(t *testing.T) {
	raw, err := traditionalchinese.Big5.NewEncoder().String("影像名稱\r\n")
	require.NoError(t, err)
	fl := &fakeLauncher{output: []byte(raw)}
	r := NewRunner(fl)

	res, err := r.RunPlain(context.Background(), NewCommand("tasklist", "/fi", "imagename eq vcredist_x64.exe", "/fo", "csv"))
	require.NoError(t, err)
	assert.True(t, res.Captured)
	assert.Equal(t, "影像名稱\r\n", res.Output)

	require.Len(t, fl.calls, 1)
	assert.Equal(t, "cmd", fl.calls[0].program)
	assert.Equal(t, []string{"/C", "tasklist", "/fi", "imagename eq vcredist_x64.exe", "/fo", "csv"}, fl.calls[0].args)
}

func TestRunPlain_NonZeroIsReportedNotRaised(t *testing.T) {
	fl := &fakeLauncher{output: []byte("ERROR: The system was unable to find the specified registry key or value.\r\n"), code: 1}
	r := NewRunner(fl)

	res, err := r.RunPlain(context.Background(), ParseCommand(`reg query HKLM\SOFTWARE\Missing`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Output, "unable to find")
}

func TestRunPlain_LaunchError(t *testing.T) {
	fl := &fakeLauncher{err: errors.New("cmd not found")}
	r := NewRunner(fl)

	_, err := r.RunPlain(context.Background(), NewCommand("reg"))
	assert.ErrorIs(t, err, ErrLaunchFailed)
}
