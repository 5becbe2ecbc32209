// Package config resolves directories and loads desk settings.
//
// Precedence for the configuration directory is --config-dir, then
// DESK_CONFIG_DIR, then the platform default. The data directory is
// --data-dir, then data_dir (config.yaml or DESK_DATA_DIR), then
// $(CWD)/.desk-data.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".desk-data"

// EnvConfigDir overrides the configuration directory.
const EnvConfigDir = "DESK_CONFIG_DIR"

// appName names the per-user directory under the platform config root.
const appName = "desk"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/desk (fallback ~/.config/desk)
// macOS:   ~/Library/Application Support/desk
// Windows: %APPDATA%/desk
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns flag if set, else DESK_CONFIG_DIR, else the
// platform default. Explicit values are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns flag if set, else configured, else
// $(CWD)/.desk-data. configured already reflects DESK_DATA_DIR.
func ResolveDataDir(flag, configured string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configured != "" {
		return filepath.Abs(configured)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
