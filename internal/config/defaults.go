package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// PlatformDataDir returns the platform-specific data directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/inkpick/
//   - Linux:   ~/.local/share/inkpick/
//   - Windows: %APPDATA%\inkpick\
//
// Falls back to ~/.inkpick if platform detection fails.
func PlatformDataDir() string {
	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fallbackDir()
		}
		return filepath.Join(homeDir, "Library", "Application Support", "inkpick")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return fallbackDir()
		}
		return filepath.Join(appData, "inkpick")
	default:
		if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
			return filepath.Join(dataHome, "inkpick")
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fallbackDir()
		}
		return filepath.Join(homeDir, ".local", "share", "inkpick")
	}
}

// PlatformConfigDir returns the platform-specific config directory.
func PlatformConfigDir() string {
	switch runtime.GOOS {
	case "darwin", "windows":
		// Same directory for config and data on these platforms.
		return PlatformDataDir()
	default:
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "inkpick")
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fallbackDir()
		}
		return filepath.Join(homeDir, ".config", "inkpick")
	}
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(PlatformConfigDir(), "config.toml")
}

func fallbackDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".inkpick"
	}
	return filepath.Join(homeDir, ".inkpick")
}
