//go:build windows

// pkg/config/config_windows.go - registry policy fallback.

package config

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sys/windows/registry"
)

// loadFromRegistry overlays values found under HKCU\<registryPath>.
func loadFromRegistry(registryPath string, cfg *Configuration) error {
	key, err := registry.OpenKey(registry.CURRENT_USER, registryPath, registry.READ)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return errPolicyUnavailable
		}
		return fmt.Errorf("failed to open registry key %s: %w", registryPath, err)
	}
	defer key.Close()

	loadStringFromRegistry(key, "CachePath", &cfg.CachePath)
	loadStringFromRegistry(key, "LibPath", &cfg.LibPath)
	loadStringFromRegistry(key, "VCRedistURL", &cfg.VCRedistURL)
	loadStringFromRegistry(key, "SKCOMURL", &cfg.SKCOMURL)
	loadStringFromRegistry(key, "RequiredVCRedistVersion", &cfg.RequiredVCRedistVersion)
	loadStringFromRegistry(key, "RequiredSKCOMVersion", &cfg.RequiredSKCOMVersion)
	loadStringFromRegistry(key, "LogLevel", &cfg.LogLevel)

	loadIntFromRegistry(key, "PollIntervalMilliseconds", &cfg.PollIntervalMilliseconds)
	loadIntFromRegistry(key, "InstallerTimeoutMinutes", &cfg.InstallerTimeoutMinutes)
	loadIntFromRegistry(key, "DownloadTimeoutSeconds", &cfg.DownloadTimeoutSeconds)

	loadBoolFromRegistry(key, "LogToFile", &cfg.LogToFile)
	loadBoolFromRegistry(key, "Verbose", &cfg.Verbose)
	loadBoolFromRegistry(key, "CheckOnly", &cfg.CheckOnly)
	return nil
}

func loadStringFromRegistry(key registry.Key, valueName string, target *string) {
	if val, _, err := key.GetStringValue(valueName); err == nil && val != "" {
		*target = val
	}
}

// loadBoolFromRegistry accepts "true"/"false", "1"/"0" strings or a DWORD.
func loadBoolFromRegistry(key registry.Key, valueName string, target *bool) {
	if val, _, err := key.GetStringValue(valueName); err == nil {
		if parsed, parseErr := strconv.ParseBool(val); parseErr == nil {
			*target = parsed
			return
		}
	}
	if val, _, err := key.GetIntegerValue(valueName); err == nil {
		*target = val != 0
	}
}

func loadIntFromRegistry(key registry.Key, valueName string, target *int) {
	if val, _, err := key.GetStringValue(valueName); err == nil {
		if parsed, parseErr := strconv.Atoi(val); parseErr == nil {
			*target = parsed
			return
		}
	}
	if val, _, err := key.GetIntegerValue(valueName); err == nil {
		*target = int(val)
	}
}
