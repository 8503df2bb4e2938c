package config

import (
	"fmt"
	"strings"
)

// validateConfig collects every invalid value into one error.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateGutter(config)...)
	validationErrors = append(validationErrors, validateMouse(config)...)
	validationErrors = append(validationErrors, validateView(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled", "off", "none":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level %q is not a known level", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "json", "console":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format %q must be json or console", config.Logging.Format))
	}
	return validationErrors
}

func validateGutter(config *Config) []string {
	var validationErrors []string
	if config.Gutter.MinLineNumberWidth < 0 {
		validationErrors = append(validationErrors, "gutter.min_line_number_width must be non-negative")
	}
	if config.Gutter.SignColumnWidth < 1 {
		validationErrors = append(validationErrors, "gutter.sign_column_width must be at least 1")
	}
	return validationErrors
}

func validateMouse(config *Config) []string {
	var validationErrors []string
	if config.Mouse.ScrollLines < 1 {
		validationErrors = append(validationErrors, "mouse.scroll_lines must be at least 1")
	}
	if config.Mouse.ScrollLinesShift < 1 {
		validationErrors = append(validationErrors, "mouse.scroll_lines_shift must be at least 1")
	}
	return validationErrors
}

func validateView(config *Config) []string {
	var validationErrors []string
	if config.View.CacheSize < 1 {
		validationErrors = append(validationErrors, "view.cache_size must be at least 1")
	}
	if config.View.PrefetchLines < 0 {
		validationErrors = append(validationErrors, "view.prefetch_lines must be non-negative")
	}
	return validationErrors
}
