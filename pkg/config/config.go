// pkg/config/config.go - configuration settings for skcomsetup.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when no --config flag is given.
const DefaultConfigPath = `~\.skcom\config.yaml`

// PolicyRegistryPath is the per-user registry key consulted when the YAML
// file is absent.
const PolicyRegistryPath = `SOFTWARE\SKCOM\Config`

const (
	DefaultVCRedistURL = "https://download.microsoft.com/download/1/6/5/" +
		"165255E7-1014-4D0A-B094-B6A430A6BFFC/vcredist_x64.exe"
	DefaultSKCOMURL = "https://www.capital.com.tw/Service2/download/api_zip/CapitalAPI_2.13.16.zip"
)

// Configuration holds the configurable options in YAML format.
type Configuration struct {
	CachePath               string `yaml:"CachePath"`
	LibPath                 string `yaml:"LibPath"`
	VCRedistURL             string `yaml:"VCRedistURL"`
	SKCOMURL                string `yaml:"SKCOMURL"`
	RequiredVCRedistVersion string `yaml:"RequiredVCRedistVersion"`
	RequiredSKCOMVersion    string `yaml:"RequiredSKCOMVersion"`
	LogLevel                string `yaml:"LogLevel"`
	LogToFile               bool   `yaml:"LogToFile"`
	Verbose                 bool   `yaml:"Verbose"`
	CheckOnly               bool   `yaml:"CheckOnly"`

	PollIntervalMilliseconds int `yaml:"PollIntervalMilliseconds"` // installer exit polling
	InstallerTimeoutMinutes  int `yaml:"InstallerTimeoutMinutes"`  // give up waiting after this
	DownloadTimeoutSeconds   int `yaml:"DownloadTimeoutSeconds"`
}

// GetDefaultConfig provides default configuration values.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		CachePath:                `~\.skcom`,
		LibPath:                  `~\.skcom\lib`,
		VCRedistURL:              DefaultVCRedistURL,
		SKCOMURL:                 DefaultSKCOMURL,
		RequiredVCRedistVersion:  "10.0.40219.325",
		RequiredSKCOMVersion:     "2.13.16.0",
		LogLevel:                 "INFO",
		PollIntervalMilliseconds: 500,
		InstallerTimeoutMinutes:  15,
		DownloadTimeoutSeconds:   300,
	}
}

// LoadConfig loads the configuration from a YAML file. If the file doesn't
// exist it falls back to registry policy values, and then to defaults.
func LoadConfig(path string) (*Configuration, error) {
	cfg := GetDefaultConfig()

	expanded, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if regErr := loadFromRegistry(PolicyRegistryPath, cfg); regErr != nil && !errors.Is(regErr, errPolicyUnavailable) {
			return nil, fmt.Errorf("failed to load registry policy: %w", regErr)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %s: %w", expanded, err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Configuration, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}

	expanded, err := expandHome(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0755); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	if err := os.WriteFile(expanded, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// errPolicyUnavailable means no registry policy key exists for this user.
var errPolicyUnavailable = errors.New("registry policy not available")

func expandHome(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %s: %w", path, err)
	}
	return expanded, nil
}

// applyDefaults refills empty or non-positive fields.
func (c *Configuration) applyDefaults() {
	d := GetDefaultConfig()
	if c.CachePath == "" {
		c.CachePath = d.CachePath
	}
	if c.LibPath == "" {
		c.LibPath = d.LibPath
	}
	if c.VCRedistURL == "" {
		c.VCRedistURL = d.VCRedistURL
	}
	if c.SKCOMURL == "" {
		c.SKCOMURL = d.SKCOMURL
	}
	if c.RequiredVCRedistVersion == "" {
		c.RequiredVCRedistVersion = d.RequiredVCRedistVersion
	}
	if c.RequiredSKCOMVersion == "" {
		c.RequiredSKCOMVersion = d.RequiredSKCOMVersion
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.PollIntervalMilliseconds <= 0 {
		c.PollIntervalMilliseconds = d.PollIntervalMilliseconds
	}
	if c.InstallerTimeoutMinutes <= 0 {
		c.InstallerTimeoutMinutes = d.InstallerTimeoutMinutes
	}
	if c.DownloadTimeoutSeconds <= 0 {
		c.DownloadTimeoutSeconds = d.DownloadTimeoutSeconds
	}
}

// PollInterval returns the installer polling interval.
func (c *Configuration) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMilliseconds) * time.Millisecond
}

// InstallerTimeout returns how long to wait for an installer to exit.
func (c *Configuration) InstallerTimeout() time.Duration {
	return time.Duration(c.InstallerTimeoutMinutes) * time.Minute
}

// DownloadTimeout returns the HTTP client timeout for downloads.
func (c *Configuration) DownloadTimeout() time.Duration {
	return time.Duration(c.DownloadTimeoutSeconds) * time.Second
}
