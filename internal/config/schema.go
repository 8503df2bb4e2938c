// Package config loads glyphclick configuration from TOML files and
// GLYPHCLICK_ environment variables.
package config

// Config is the complete glyphclick configuration.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging" toml:"logging"`
	Gutter      GutterConfig      `mapstructure:"gutter" toml:"gutter"`
	Mouse       MouseConfig       `mapstructure:"mouse" toml:"mouse"`
	View        ViewConfig        `mapstructure:"view" toml:"view"`
	Watch       WatchConfig       `mapstructure:"watch" toml:"watch"`
	Breakpoints BreakpointsConfig `mapstructure:"breakpoints" toml:"breakpoints"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`

	// File receives log lines. Logs are discarded when empty because the
	// terminal is owned by the viewer.
	File string `mapstructure:"file" toml:"file"`
}

// GutterConfig configures the gutter left of the text.
type GutterConfig struct {
	ShowLineNumbers    bool `mapstructure:"show_line_numbers" toml:"show_line_numbers"`
	MinLineNumberWidth int  `mapstructure:"min_line_number_width" toml:"min_line_number_width"`
	SignColumnWidth    int  `mapstructure:"sign_column_width" toml:"sign_column_width"`
}

// MouseConfig configures mouse wheel scrolling.
type MouseConfig struct {
	ScrollLines      int `mapstructure:"scroll_lines" toml:"scroll_lines"`
	ScrollLinesShift int `mapstructure:"scroll_lines_shift" toml:"scroll_lines_shift"`
}

// ViewConfig configures the text view line cache.
type ViewConfig struct {
	CacheSize     int `mapstructure:"cache_size" toml:"cache_size"`
	PrefetchLines int `mapstructure:"prefetch_lines" toml:"prefetch_lines"`
}

// WatchConfig configures reloading the open file when it changes on disk.
type WatchConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
}

// BreakpointsConfig configures breakpoint persistence.
type BreakpointsConfig struct {
	// File stores breakpoints between runs. Breakpoints are kept in memory
	// only when empty.
	File string `mapstructure:"file" toml:"file"`
}
