// cmd/skcomsetup/main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/windowsadmins/skcom/pkg/config"
	"github.com/windowsadmins/skcom/pkg/installer"
	"github.com/windowsadmins/skcom/pkg/logging"
	"github.com/windowsadmins/skcom/pkg/preflight"
	"github.com/windowsadmins/skcom/pkg/utils"
	"github.com/windowsadmins/skcom/pkg/version"
)

var logger *logging.Logger

func main() {
	utils.PatchWindowsArgs()

	configPath := pflag.String("config", config.DefaultConfigPath, "Path to the YAML configuration file.")
	showConfig := pflag.Bool("show-config", false, "Display the current configuration and exit.")
	checkOnly := pflag.Bool("checkonly", false, "Report what would be installed, but don't install it.")
	skipVCRedist := pflag.Bool("skip-vcredist", false, "Don't check or install the Visual C++ redistributable.")
	skipSKCOM := pflag.Bool("skip-skcom", false, "Don't check or install the SKCOM component.")
	versionFlag := pflag.Bool("version", false, "Print the version and exit.")

	// Count the number of -v flags.
	var verbosity int
	pflag.CountVarP(&verbosity, "verbose", "v", "Increase verbosity (e.g. -v, -vv, -vvv)")
	pflag.Parse()

	if *versionFlag {
		version.Fprint(os.Stdout, verbosity > 0)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyVerbosity(cfg, verbosity)
	if *checkOnly {
		cfg.CheckOnly = true
	}

	logger = logging.New(verbosity > 0)
	if err := logging.Init(cfg); err != nil {
		logger.Fatal("Error initializing logger: %v", err)
	}
	defer logging.CloseLogger()

	if *showConfig {
		if cfgYaml, err := yaml.Marshal(cfg); err == nil {
			logger.Printf("Current configuration:\n%s", string(cfgYaml))
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	if _, err := preflight.RunPreflight(); err != nil {
		logger.Error("Preflight failed: %v", err)
		logging.CloseLogger()
		os.Exit(1)
	}

	outcomes, err := run(ctx, installer.New(cfg), cfg, !*skipVCRedist, !*skipSKCOM)
	for _, out := range outcomes {
		report(out)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warning("Interrupted, exiting")
		} else {
			logger.Error("Setup failed: %v", err)
		}
		logging.CloseLogger()
		os.Exit(1)
	}
	logger.Success("SKCOM environment is ready")
}

// applyVerbosity maps -v counts onto the configured log level.
// 0 => configured level, 1 => INFO, 2+ => DEBUG
func applyVerbosity(cfg *config.Configuration, verbosity int) {
	switch {
	case verbosity == 1:
		cfg.LogLevel = "INFO"
	case verbosity >= 2:
		cfg.LogLevel = "DEBUG"
		cfg.Verbose = true
	}
}

// ensurer is the part of the installer the command drives.
type ensurer interface {
	EnsureVCRedist(ctx context.Context, required string) (installer.Outcome, error)
	EnsureSKCOM(ctx context.Context, required string) (installer.Outcome, error)
}

// run ensures the redistributable before the component, which links against it.
func run(ctx context.Context, e ensurer, cfg *config.Configuration, vcredist, skcom bool) ([]installer.Outcome, error) {
	var outcomes []installer.Outcome
	if vcredist {
		out, err := e.EnsureVCRedist(ctx, cfg.RequiredVCRedistVersion)
		outcomes = append(outcomes, out)
		if err != nil {
			return outcomes, err
		}
	}
	if skcom {
		out, err := e.EnsureSKCOM(ctx, cfg.RequiredSKCOMVersion)
		outcomes = append(outcomes, out)
		if err != nil {
			return outcomes, err
		}
	}
	return outcomes, nil
}

func report(out installer.Outcome) {
	installed, required := "unknown", "unknown"
	if out.Installed != nil {
		installed = out.Installed.String()
	}
	if out.Required != nil {
		required = out.Required.String()
	}
	switch out.Action {
	case installer.ActionInstalled:
		logger.Success("%s: installed (was %s, required %s)", out.Component, installed, required)
	case installer.ActionWouldInstall:
		logger.Warning("%s: %s is older than %s, would install", out.Component, installed, required)
	case installer.ActionFailed:
		logger.Error("%s: install failed (installed %s, required %s)", out.Component, installed, required)
	default:
		logger.Info("%s: %s is up to date (required %s)", out.Component, installed, required)
	}
}
