// Package config handles configuration loading and validation for kblayout.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// PlatformDataDir returns the platform-specific data directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/kblayout/
//   - Linux:   ~/.local/share/kblayout/
//   - Windows: %APPDATA%\kblayout\
//
// KBLAYOUT_DATA_DIR overrides all of them.
func PlatformDataDir() string {
	if envDir := os.Getenv("KBLAYOUT_DATA_DIR"); envDir != "" {
		return envDir
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Application Support", "kblayout")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "kblayout")
		}
		return filepath.Join(homeDir(), "AppData", "Roaming", "kblayout")
	default:
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "kblayout")
		}
		return filepath.Join(homeDir(), ".local", "share", "kblayout")
	}
}

// PlatformConfigDir returns the platform-specific config directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/kblayout/
//   - Linux:   ~/.config/kblayout/
//   - Windows: %APPDATA%\kblayout\
func PlatformConfigDir() string {
	switch runtime.GOOS {
	case "darwin", "windows":
		return PlatformDataDir()
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, "kblayout")
		}
		return filepath.Join(homeDir(), ".config", "kblayout")
	}
}

// PlatformLogDir returns the platform-specific log directory.
//
// Platform paths:
//   - macOS:   ~/Library/Logs/kblayout/
//   - Linux:   ~/.local/share/kblayout/logs/
//   - Windows: %LOCALAPPDATA%\kblayout\logs\
func PlatformLogDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Logs", "kblayout")
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "kblayout", "logs")
		}
		return filepath.Join(PlatformDataDir(), "logs")
	default:
		return filepath.Join(PlatformDataDir(), "logs")
	}
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return home
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(PlatformConfigDir(), "config.toml")
}

// SupportedConfigFormats returns the list of supported config file formats.
func SupportedConfigFormats() []string {
	return []string{
		"toml",
		"json",
		"yaml",
		"yml",
	}
}

// FindConfigFile searches for a config file in standard locations.
// Returns the path to the first found config file, or empty string if none found.
func FindConfigFile() string {
	// Search order:
	// 1. Current directory
	// 2. Config directory
	searchDirs := []string{
		".",
		PlatformConfigDir(),
	}

	for _, dir := range searchDirs {
		for _, ext := range SupportedConfigFormats() {
			path := filepath.Join(dir, "config."+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}
