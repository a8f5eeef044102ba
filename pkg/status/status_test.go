package status

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windowsadmins/skcom/pkg/extract"
	"github.com/windowsadmins/skcom/pkg/process"
)

type fakeRegistry struct {
	value string
	err   error
}

func (f fakeRegistry) StringValue(keyPath, valueName string) (string, error) {
	if keyPath != VCRedistKeyPath || valueName != VCRedistValueName {
		return "", ErrNotFound
	}
	return f.value, f.err
}

type fakeRunner struct {
	output string
	err    error
	calls  []process.Command
}

func (f *fakeRunner) RunPlain(_ context.Context, cmd process.Command) (process.Result, error) {
	f.calls = append(f.calls, cmd)
	return process.Result{Output: f.output, Captured: true}, f.err
}

func versionsByPath(m map[string]string) extract.FileVersionFunc {
	return func(path string) (string, error) {
		v, ok := m[path]
		if !ok {
			return "", extract.ErrVersionUnavailable
		}
		return v, nil
	}
}

func TestVCRedistVersion(t *testing.T) {
	tests := []struct {
		name string
		reg  fakeRegistry
		want string
	}{
		{"prefixed", fakeRegistry{value: "v10.0.40219.325"}, "10.0.40219.325"},
		{"bare", fakeRegistry{value: "10.0.40219.473"}, "10.0.40219.473"},
		{"absent", fakeRegistry{err: ErrNotFound}, ZeroVersionString},
		{"access denied", fakeRegistry{err: errors.New("access denied")}, ZeroVersionString},
		{"three parts", fakeRegistry{value: "v10.0.40219"}, ZeroVersionString},
		{"garbage", fakeRegistry{value: "unknown"}, ZeroVersionString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insp := &Inspector{Registry: tt.reg}
			assert.Equal(t, tt.want, insp.VCRedistVersion().String())
		})
	}
}

const regQueryOutput = "\r\n" +
	"HKEY_LOCAL_MACHINE\\SOFTWARE\\Classes\\TypeLib\\{1E3C5B7A-0000-4C8D-9C5A-8F7E2D6B1A90}\\1.0\\0\\win64\r\n" +
	"    (Default)    REG_SZ    C:\\old\\SKCOM.dll\r\n" +
	"\r\n" +
	"HKEY_LOCAL_MACHINE\\SOFTWARE\\Classes\\TypeLib\\{1E3C5B7A-0000-4C8D-9C5A-8F7E2D6B1A90}\\2.0\\0\\win64\r\n" +
	"    (Default)    REG_SZ    C:\\Users\\trader\\.skcom\\lib\\SKCOM.dll\r\n" +
	"\r\n" +
	"End of search: 2 match(es) found.\r\n"

func TestSKCOMVersion_FirstReadableCandidate(t *testing.T) {
	runner := &fakeRunner{output: regQueryOutput}
	insp := &Inspector{
		Runner: runner,
		Files: versionsByPath(map[string]string{
			`C:\Users\trader\.skcom\lib\SKCOM.dll`: "2.13.16.0",
		}),
	}

	assert.Equal(t, "2.13.16.0", insp.SKCOMVersion(context.Background()).String())

	require.Len(t, runner.calls, 1)
	assert.Equal(t, process.NewCommand("reg", "query", TypeLibKeyPath, "/s", "/f", "SKCOM.dll"), runner.calls[0])
}

func TestSKCOMVersion_UnparsableCandidateSkipped(t *testing.T) {
	insp := &Inspector{
		Runner: &fakeRunner{output: regQueryOutput},
		Files: versionsByPath(map[string]string{
			`C:\old\SKCOM.dll`:                     "n/a",
			`C:\Users\trader\.skcom\lib\SKCOM.dll`: "2.13.16.0",
		}),
	}
	assert.Equal(t, "2.13.16.0", insp.SKCOMVersion(context.Background()).String())
}

func TestSKCOMVersion_NotRegistered(t *testing.T) {
	insp := &Inspector{
		Runner: &fakeRunner{output: "\r\nEnd of search: 0 match(es) found.\r\n"},
		Files:  versionsByPath(nil),
	}
	assert.Equal(t, ZeroVersionString, insp.SKCOMVersion(context.Background()).String())
}

func TestSKCOMVersion_QueryFails(t *testing.T) {
	insp := &Inspector{
		Runner: &fakeRunner{err: process.ErrLaunchFailed},
		Files:  versionsByPath(nil),
	}
	assert.Equal(t, ZeroVersionString, insp.SKCOMVersion(context.Background()).String())
}

func TestMatchDLLPaths(t *testing.T) {
	assert.Equal(t, []string{
		`C:\old\SKCOM.dll`,
		`C:\Users\trader\.skcom\lib\SKCOM.dll`,
	}, matchDLLPaths(regQueryOutput))

	assert.Equal(t, []string{`D:\API\skcom.DLL`}, matchDLLPaths("    (Default)    REG_SZ    D:\\API\\skcom.DLL\n"))
	assert.Empty(t, matchDLLPaths("    (Default)    REG_SZ    C:\\lib\\Other.dll\r\n"))
}

func TestVersionOrdering(t *testing.T) {
	assert.True(t, ParseVersion("2.9.0.0").LessThan(ParseVersion("10.0.0.0")))
	assert.True(t, ParseVersion("2.13.15.0").LessThan(ParseVersion("2.13.16.0")))
	assert.False(t, ParseVersion("2.13.16.0").LessThan(ParseVersion("2.13.16.0")))
	assert.Equal(t, ZeroVersionString, ParseVersion("not-a-version").String())
	assert.True(t, ZeroVersion().LessThan(ParseVersion("10.0.40219.325")))
}

func TestUpgradeNeededScenario(t *testing.T) {
	insp := &Inspector{
		Registry: fakeRegistry{err: ErrNotFound},
		Runner:   &fakeRunner{output: regQueryOutput},
		Files: versionsByPath(map[string]string{
			`C:\old\SKCOM.dll`: "2.9.0.0",
		}),
	}
	assert.True(t, insp.VCRedistVersion().LessThan(ParseVersion("10.0.40219.325")))
	assert.True(t, insp.SKCOMVersion(context.Background()).LessThan(ParseVersion("2.13.16.0")))
}
