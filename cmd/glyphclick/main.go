// Package main is the entry point for glyphclick.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/glyphclick/internal/app"
	"github.com/dshills/glyphclick/internal/config"
	"github.com/dshills/glyphclick/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type rootFlags struct {
	configPath string
	logLevel   string
	logFile    string
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "glyphclick [file]",
		Short: "Terminal file viewer with a clickable breakpoint margin",
		Long: `glyphclick shows a file in the terminal. Clicking a line in the sign column
toggles a breakpoint on that line. Breakpoints are saved to the configured
breakpoints file when the viewer exits.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runViewer(cmd.Context(), flags, path)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "Write logs to this file")

	cmd.AddCommand(newConfigCommand())
	return cmd
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Long:  `Writes the default configuration as TOML. Without a path the file is written to the user config directory.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			} else {
				p, err := config.GetConfigFile()
				if err != nil {
					return err
				}
				path = p
			}

			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.AddCommand(initCmd)
	return cmd
}

// loadConfig loads configuration and applies command line overrides.
func loadConfig(flags rootFlags) (*config.Config, error) {
	mgr, err := config.NewManager(config.WithConfigFile(flags.configPath))
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, err
	}

	cfg := mgr.Get()
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFile != "" {
		cfg.Logging.File = flags.logFile
	}
	return cfg, nil
}

// newLogger builds the application logger. The terminal belongs to the
// viewer, so without a log file logs are discarded.
func newLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	if cfg.Logging.File == "" {
		return zerolog.Nop(), nil, nil
	}

	f, err := logging.OpenFile(cfg.Logging.File)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	logCfg.Format = cfg.Logging.Format
	logCfg.Output = f
	return logging.New(logCfg), f, nil
}

func runViewer(ctx context.Context, flags rootFlags, path string) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	ctx = logging.WithContext(ctx, log)
	logging.FromContext(ctx).Info().Str("version", version).Str("file", path).Msg("starting")

	application, err := app.New(app.Options{
		Path:   path,
		Config: cfg,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	// Ensure cleanup on all exit paths
	defer application.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := application.Attach(screen); err != nil {
		return err
	}

	err = application.Run(ctx)
	if errors.Is(err, app.ErrQuit) || errors.Is(err, context.Canceled) {
		logging.FromContext(ctx).Info().Msg("exiting")
		return nil
	}
	return err
}
