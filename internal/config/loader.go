package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager loads configuration from file, environment and defaults.
type Manager struct {
	config   *Config
	viper    *viper.Viper
	explicit string
	mu       sync.RWMutex
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithConfigFile reads configuration from path instead of searching the
// config directories. A missing explicit file is an error.
func WithConfigFile(path string) ManagerOption {
	return func(m *Manager) {
		if path != "" {
			m.explicit = path
			m.viper.SetConfigFile(path)
		}
	}
}

// NewManager creates a new configuration manager.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// GLYPHCLICK_MOUSE_SCROLL_LINES -> mouse.scroll_lines
	v.SetEnvPrefix("GLYPHCLICK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "GLYPHCLICK_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind GLYPHCLICK_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.file", "GLYPHCLICK_LOG_FILE"); err != nil {
		return nil, fmt.Errorf("failed to bind GLYPHCLICK_LOG_FILE: %w", err)
	}

	m := &Manager{viper: v}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Load reads the configuration. A missing config file in the search path
// leaves the defaults in place.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if m.explicit != "" {
		if _, err := os.Stat(m.explicit); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", m.explicit, err)
		}
	}

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file %s: %w", m.viper.ConfigFileUsed(), err)
		}
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", m.viper.ConfigFileUsed(), err)
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

// Get returns a copy of the loaded configuration, or the defaults if Load
// has not succeeded.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.file", defaults.Logging.File)

	m.viper.SetDefault("gutter.show_line_numbers", defaults.Gutter.ShowLineNumbers)
	m.viper.SetDefault("gutter.min_line_number_width", defaults.Gutter.MinLineNumberWidth)
	m.viper.SetDefault("gutter.sign_column_width", defaults.Gutter.SignColumnWidth)

	m.viper.SetDefault("mouse.scroll_lines", defaults.Mouse.ScrollLines)
	m.viper.SetDefault("mouse.scroll_lines_shift", defaults.Mouse.ScrollLinesShift)

	m.viper.SetDefault("view.cache_size", defaults.View.CacheSize)
	m.viper.SetDefault("view.prefetch_lines", defaults.View.PrefetchLines)

	m.viper.SetDefault("watch.enabled", defaults.Watch.Enabled)

	m.viper.SetDefault("breakpoints.file", defaults.Breakpoints.File)
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	config.Logging.File = strings.TrimSpace(config.Logging.File)
	config.Breakpoints.File = strings.TrimSpace(config.Breakpoints.File)
}
