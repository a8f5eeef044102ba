package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windowsadmins/skcom/pkg/config"
	"github.com/windowsadmins/skcom/pkg/installer"
)

type fakeEnsurer struct {
	calls    []string
	required []string
	vcErr    error
}

func (f *fakeEnsurer) EnsureVCRedist(_ context.Context, required string) (installer.Outcome, error) {
	f.calls = append(f.calls, installer.ComponentVCRedist)
	f.required = append(f.required, required)
	return installer.Outcome{Component: installer.ComponentVCRedist}, f.vcErr
}

func (f *fakeEnsurer) EnsureSKCOM(_ context.Context, required string) (installer.Outcome, error) {
	f.calls = append(f.calls, installer.ComponentSKCOM)
	f.required = append(f.required, required)
	return installer.Outcome{Component: installer.ComponentSKCOM}, nil
}

func TestRun_RedistBeforeComponent(t *testing.T) {
	cfg := config.GetDefaultConfig()
	e := &fakeEnsurer{}

	outcomes, err := run(context.Background(), e, cfg, true, true)
	require.NoError(t, err)
	assert.Len(t, outcomes, 2)
	assert.Equal(t, []string{installer.ComponentVCRedist, installer.ComponentSKCOM}, e.calls)
	assert.Equal(t, []string{"10.0.40219.325", "2.13.16.0"}, e.required)
}

func TestRun_StopsAfterRedistFailure(t *testing.T) {
	e := &fakeEnsurer{vcErr: errors.New("launch failed")}

	outcomes, err := run(context.Background(), e, config.GetDefaultConfig(), true, true)
	require.Error(t, err)
	assert.Len(t, outcomes, 1)
	assert.Equal(t, []string{installer.ComponentVCRedist}, e.calls)
}

func TestRun_Skips(t *testing.T) {
	e := &fakeEnsurer{}
	_, err := run(context.Background(), e, config.GetDefaultConfig(), false, true)
	require.NoError(t, err)
	assert.Equal(t, []string{installer.ComponentSKCOM}, e.calls)
}

func TestApplyVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      string
		verbose   bool
	}{
		{0, "WARN", false},
		{1, "INFO", false},
		{2, "DEBUG", true},
		{4, "DEBUG", true},
	}
	for _, tt := range tests {
		cfg := config.GetDefaultConfig()
		cfg.LogLevel = "WARN"
		applyVerbosity(cfg, tt.verbosity)
		assert.Equal(t, tt.want, cfg.LogLevel, tt.verbosity)
		assert.Equal(t, tt.verbose, cfg.Verbose, tt.verbosity)
	}
}
