package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const appName = "glyphclick"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Gutter: GutterConfig{
			ShowLineNumbers:    true,
			MinLineNumberWidth: 3,
			SignColumnWidth:    2,
		},
		Mouse: MouseConfig{
			ScrollLines:      3,
			ScrollLinesShift: 1,
		},
		View: ViewConfig{
			CacheSize:     500,
			PrefetchLines: 20,
		},
		Watch: WatchConfig{
			Enabled: true,
		},
	}
}

// GetConfigDir returns $XDG_CONFIG_HOME/glyphclick, falling back to
// ~/.config/glyphclick.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if home == "" {
		return "", errors.New("home directory is empty")
	}
	return filepath.Join(home, ".config", appName), nil
}

// GetConfigFile returns the default config file path.
func GetConfigFile() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
