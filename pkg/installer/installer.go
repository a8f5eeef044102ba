// pkg/installer/installer.go - download, install and register the
// redistributable and the vendor COM component.

package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	version "github.com/hashicorp/go-version"

	"github.com/windowsadmins/skcom/pkg/blocking"
	"github.com/windowsadmins/skcom/pkg/config"
	"github.com/windowsadmins/skcom/pkg/download"
	"github.com/windowsadmins/skcom/pkg/extract"
	"github.com/windowsadmins/skcom/pkg/logging"
	"github.com/windowsadmins/skcom/pkg/process"
	"github.com/windowsadmins/skcom/pkg/retry"
	"github.com/windowsadmins/skcom/pkg/status"
	"github.com/windowsadmins/skcom/pkg/utils"
)

const (
	ComponentVCRedist = "vcredist"
	ComponentSKCOM    = "skcom"
)

// ErrComponentMissing is returned when the archive holds no component DLL to register.
var ErrComponentMissing = errors.New("component DLL not found in archive")

// Runner launches commands elevated or plain.
type Runner interface {
	RunElevated(ctx context.Context, cmd process.Command, opts process.Options) (process.Result, error)
	RunPlain(ctx context.Context, cmd process.Command) (process.Result, error)
}

// VersionInspector reports installed versions.
type VersionInspector interface {
	VCRedistVersion() *version.Version
	SKCOMVersion(ctx context.Context) *version.Version
}

// Installer carries the collaborators for both install workflows.
type Installer struct {
	Config     *config.Configuration
	Runner     Runner
	Downloader download.Downloader
	Inspector  VersionInspector

	// AppRunning answers the installer-exit poll when the process listing
	// command cannot be launched.
	AppRunning func(ctx context.Context, image string) (bool, error)
}

// New returns an Installer wired to the operating system.
func New(cfg *config.Configuration) *Installer {
	runner := process.NewRunner(nil)
	return &Installer{
		Config:     cfg,
		Runner:     runner,
		Downloader: download.NewClient(cfg.DownloadTimeout()),
		Inspector:  status.NewInspector(runner),
		AppRunning: blocking.IsAppRunning,
	}
}

// InstallVCRedist downloads the redistributable into the cache directory,
// runs it elevated in passive mode, waits for the installer process to go
// away and deletes the download. On failure the download is left in place.
func (i *Installer) InstallVCRedist(ctx context.Context) error {
	cacheDir, err := utils.CheckDir(i.Config.CachePath)
	if err != nil {
		return err
	}

	exePath, err := i.Downloader.DownloadFile(ctx, i.Config.VCRedistURL, cacheDir)
	if err != nil {
		return fmt.Errorf("failed to download redistributable: %w", err)
	}
	logDigest(exePath)

	logging.Info("Launching redistributable installer", "file", exePath)
	if _, err := i.Runner.RunElevated(ctx, process.NewCommand(exePath, "setup", "/passive"), process.Options{}); err != nil {
		return fmt.Errorf("failed to launch redistributable installer: %w", err)
	}

	image := filepath.Base(exePath)
	if err := i.waitForExit(ctx, image); err != nil {
		return fmt.Errorf("waiting for %s: %w", image, err)
	}

	if err := os.Remove(exePath); err != nil {
		return fmt.Errorf("failed to remove installer %s: %w", exePath, err)
	}
	logging.Info("Redistributable installer finished", "image", image)
	return nil
}

func logDigest(path string) {
	sum, err := utils.FileSHA256(path)
	if err != nil {
		logging.Warn("Failed to hash download", "file", path, "error", err)
		return
	}
	logging.Debug("Downloaded file", "file", path, "sha256", sum)
}

// waitForExit polls the process list until image no longer appears.
func (i *Installer) waitForExit(ctx context.Context, image string) error {
	cfg := retry.PollConfig{
		Interval: i.Config.PollInterval(),
		Timeout:  i.Config.InstallerTimeout(),
	}
	return retry.Until(ctx, cfg, func(ctx context.Context) (bool, error) {
		running, err := i.installerRunning(ctx, image)
		return !running, err
	})
}

func (i *Installer) installerRunning(ctx context.Context, image string) (bool, error) {
	cmd := process.NewCommand("tasklist", "/fi", "imagename eq "+image, "/fo", "csv")
	res, err := i.Runner.RunPlain(ctx, cmd)
	if err != nil {
		if i.AppRunning == nil {
			return false, err
		}
		logging.Warn("Process listing unavailable, enumerating processes instead", "error", err)
		return i.AppRunning(ctx, image)
	}
	return ListingShowsImage(res.Output, image), nil
}

// ListingShowsImage reports whether `tasklist /fo csv` output holds a data
// row for image. Header, footer and "INFO:" lines never match.
func ListingShowsImage(output, image string) bool {
	prefix := strings.ToLower(`"` + image + `",`)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToLower(line), prefix) {
			return true
		}
	}
	return false
}

// InstallSKCOM downloads the vendor archive, extracts the 64-bit DLLs flat
// into the library directory and registers the component elevated.
func (i *Installer) InstallSKCOM(ctx context.Context) error {
	libDir, err := utils.CheckDir(i.Config.LibPath)
	if err != nil {
		return err
	}
	cacheDir, err := utils.CheckDir(i.Config.CachePath)
	if err != nil {
		return err
	}

	zipPath, err := i.Downloader.DownloadFile(ctx, i.Config.SKCOMURL, cacheDir)
	if err != nil {
		return fmt.Errorf("failed to download component archive: %w", err)
	}
	logDigest(zipPath)

	written, err := extract.ExtractFlat(zipPath, libDir, extract.X64DLLPattern)
	if err != nil {
		return err
	}
	logging.Info("Extracted component files", "count", len(written), "destination", libDir)

	dllPath := filepath.Join(libDir, status.SKCOMDLLName)
	if !containsPath(written, dllPath) {
		return fmt.Errorf("%w: %s", ErrComponentMissing, status.SKCOMDLLName)
	}

	logging.Info("Registering component", "dll", dllPath)
	if _, err := i.Runner.RunElevated(ctx, process.NewCommand("regsvr32", dllPath), process.Options{}); err != nil {
		return fmt.Errorf("failed to register %s: %w", dllPath, err)
	}

	if err := os.Remove(zipPath); err != nil {
		logging.Warn("Failed to remove component archive", "file", zipPath, "error", err)
	}
	return nil
}

func containsPath(paths []string, want string) bool {
	for _, p := range paths {
		if strings.EqualFold(p, want) {
			return true
		}
	}
	return false
}

// Action is what Ensure did for a component.
type Action string

const (
	ActionUpToDate     Action = "up-to-date"
	ActionWouldInstall Action = "would-install"
	ActionInstalled    Action = "installed"
	ActionFailed       Action = "failed"
)

// Outcome summarizes one Ensure call.
type Outcome struct {
	Component string
	Installed *version.Version
	Required  *version.Version
	Action    Action
	Duration  time.Duration
}

// EnsureVCRedist installs the redistributable when the installed version is
// older than required.
func (i *Installer) EnsureVCRedist(ctx context.Context, required string) (Outcome, error) {
	return i.ensure(ctx, ComponentVCRedist, required,
		func(context.Context) *version.Version { return i.Inspector.VCRedistVersion() },
		i.InstallVCRedist)
}

// EnsureSKCOM installs and registers the component when the installed
// version is older than required.
func (i *Installer) EnsureSKCOM(ctx context.Context, required string) (Outcome, error) {
	return i.ensure(ctx, ComponentSKCOM, required, i.Inspector.SKCOMVersion, i.InstallSKCOM)
}

func (i *Installer) ensure(
	ctx context.Context,
	name, required string,
	current func(context.Context) *version.Version,
	install func(context.Context) error,
) (Outcome, error) {
	want, err := version.NewVersion(required)
	if err != nil {
		return Outcome{Component: name}, fmt.Errorf("invalid required version %q for %s: %w", required, name, err)
	}

	have := current(ctx)
	out := Outcome{Component: name, Installed: have, Required: want, Action: ActionUpToDate}
	logging.Info("Checked installed version", "component", name, "installed", have.String(), "required", want.String())

	if !have.LessThan(want) {
		return out, nil
	}
	if i.Config.CheckOnly {
		logging.Info("CheckOnly mode: would install", "component", name)
		out.Action = ActionWouldInstall
		return out, nil
	}

	start := time.Now()
	if err := install(ctx); err != nil {
		logging.Error("Install failed", "component", name, "error", err)
		out.Action = ActionFailed
		return out, err
	}
	out.Action = ActionInstalled
	out.Duration = time.Since(start)
	logging.Info("Install completed", "component", name, "duration", out.Duration.String())
	return out, nil
}
