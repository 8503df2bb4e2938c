// Package app runs the glyphclick terminal viewer.
//
// The App shows one file in a tcell screen. The left gutter holds the sign
// column, which is the glyph margin: clicking a line there toggles a
// breakpoint. Terminal events and file change notifications are read on
// their own goroutines and handled one at a time on the event loop, so the
// view, margin and breakpoint set are only touched from one goroutine.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/glyphclick/internal/config"
	"github.com/dshills/glyphclick/internal/debug"
	"github.com/dshills/glyphclick/internal/docview"
	"github.com/dshills/glyphclick/internal/event"
	"github.com/dshills/glyphclick/internal/gutter"
	"github.com/dshills/glyphclick/internal/input/mouse"
	"github.com/dshills/glyphclick/internal/logging"
	"github.com/dshills/glyphclick/internal/margin"
	"github.com/dshills/glyphclick/internal/text"
	"github.com/dshills/glyphclick/internal/view"
)

// Errors returned by the application.
var (
	// ErrQuit is returned by Run when the user quits.
	ErrQuit = errors.New("quit")

	// ErrNoFile is returned when the file to open does not exist.
	ErrNoFile = errors.New("file does not exist")

	// ErrNotAttached is returned when Run is called before Attach.
	ErrNotAttached = errors.New("no screen attached")
)

// Options configures an App.
type Options struct {
	// Path is the file to show. An empty path opens an empty scratch buffer.
	Path string

	// Config is the loaded configuration. Nil means defaults.
	Config *config.Config

	// Logger receives application logs. The zero value discards them.
	Logger zerolog.Logger
}

// App is the terminal viewer.
type App struct {
	config *config.Config
	log    zerolog.Logger
	path   string

	buffer      *text.Buffer
	document    *docview.DocumentViewer
	view        *view.TextView
	margin      *margin.Margin
	tracker     *margin.Tracker
	breakpoints *debug.BreakpointManager
	toggler     *margin.Lazy[margin.Toggler]
	gutter      *gutter.Gutter
	decoder     *mouse.Decoder
	mouseConfig mouse.Config

	screen   tcell.Screen
	layout   event.Subscription
	inMargin bool
	closed   bool

	// notice is the last breakpoint change, shown in the status line.
	notice string
}

// New loads the file and builds the view, margin and breakpoint set.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	a := &App{
		config:  cfg,
		log:     logging.WithComponent(opts.Logger, "app"),
		decoder: mouse.NewDecoder(),
		mouseConfig: mouse.Config{
			ScrollLines:      cfg.Mouse.ScrollLines,
			ScrollLinesShift: cfg.Mouse.ScrollLinesShift,
		},
	}

	buf, err := loadBuffer(opts.Path)
	if err != nil {
		return nil, err
	}
	a.buffer = buf
	a.path = buf.Path()
	a.document = docview.New(buf)

	bpOpts := []debug.Option{
		debug.WithLogger(opts.Logger),
		debug.WithOnChange(a.onBreakpointChange),
	}
	if cfg.Breakpoints.File != "" {
		bpOpts = append(bpOpts, debug.WithPersistPath(cfg.Breakpoints.File))
	}
	a.breakpoints = debug.NewBreakpointManager(bpOpts...)
	if cfg.Breakpoints.File != "" {
		if err := a.breakpoints.Load(); err != nil {
			a.log.Warn().Err(err).Str("file", cfg.Breakpoints.File).Msg("failed to load breakpoints")
		}
	}

	a.view = view.New(buf, view.Config{
		Height:        view.DefaultConfig().Height,
		CacheSize:     cfg.View.CacheSize,
		PrefetchLines: cfg.View.PrefetchLines,
	},
		view.WithLogger(logging.WithComponent(opts.Logger, "view")),
		view.WithRoles(view.RoleDebuggable, view.RoleInteractive),
	)

	a.gutter = gutter.New(gutter.Config{
		ShowLineNumbers:    cfg.Gutter.ShowLineNumbers,
		MinLineNumberWidth: cfg.Gutter.MinLineNumberWidth,
		ShowSigns:          true,
		SignColumnWidth:    cfg.Gutter.SignColumnWidth,
	})
	a.gutter.SetLineCount(buf.LineCount())
	a.gutter.SetSignProvider(gutter.SignProviderFunc(a.signsForLine))

	a.layout = a.view.LayoutChanged().Subscribe(a.onLayoutChanged, event.WithPriority(event.PriorityLow))

	a.toggler = margin.NewLazy(func() margin.Toggler {
		a.log.Debug().Msg("breakpoint manager resolved")
		return a.breakpoints
	})
	provider, err := margin.NewProvider(a.toggler, margin.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	a.margin = margin.NewMargin(a.view)
	a.tracker, err = provider.Associate(a.margin)
	if err != nil {
		return nil, fmt.Errorf("attach glyph margin: %w", err)
	}

	a.log.Info().Str("path", a.path).Int("lines", buf.LineCount()).Msg("document opened")
	return a, nil
}

func loadBuffer(path string) (*text.Buffer, error) {
	if path == "" {
		return text.NewBuffer(""), nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	f, err := os.Open(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoFile, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf, err := text.NewBufferFromReader(f, text.WithPath(abs))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf, nil
}

// Attach initializes screen and sizes the view to it.
func (a *App) Attach(screen tcell.Screen) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()
	screen.EnableFocus()
	screen.HideCursor()
	a.screen = screen

	_, h := screen.Size()
	a.resize(h)
	a.Draw()
	return nil
}

// Close closes the view, saves breakpoints and releases the screen.
// Close is idempotent.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true

	a.view.Close()
	a.layout.Cancel()

	if a.config.Breakpoints.File != "" {
		if err := a.breakpoints.Save(); err != nil {
			a.log.Warn().Err(err).Msg("failed to save breakpoints")
		}
	}

	if a.screen != nil {
		a.screen.Fini()
	}
	a.log.Info().Msg("closed")
}

// Path returns the absolute path of the open file.
func (a *App) Path() string { return a.path }

// View returns the text view.
func (a *App) View() *view.TextView { return a.view }

// Margin returns the glyph margin.
func (a *App) Margin() *margin.Margin { return a.margin }

// Tracker returns the margin click tracker.
func (a *App) Tracker() *margin.Tracker { return a.tracker }

// Breakpoints returns the breakpoint set.
func (a *App) Breakpoints() *debug.BreakpointManager { return a.breakpoints }

// Gutter returns the gutter.
func (a *App) Gutter() *gutter.Gutter { return a.gutter }

func (a *App) signsForLine(line int) []gutter.Sign {
	bp, ok := a.breakpoints.GetBreakpointAt(a.path, line+1)
	if !ok {
		return nil
	}
	st := gutter.SignBreakpoint
	if !bp.Enabled {
		st = gutter.SignBreakpointDisabled
	}
	return []gutter.Sign{{Line: line, Type: st}}
}

func (a *App) onBreakpointChange(bp debug.Breakpoint, added bool) {
	a.log.Debug().Str("path", bp.Path).Int("line", bp.Line).Bool("added", added).Msg("breakpoint changed")
	if bp.Path != a.path {
		return
	}
	if added {
		a.notice = fmt.Sprintf("breakpoint set at line %d", bp.Line)
	} else {
		a.notice = fmt.Sprintf("breakpoint cleared at line %d", bp.Line)
	}
}

func (a *App) onLayoutChanged(change view.LayoutChange) {
	a.gutter.SetLineCount(a.buffer.LineCount())
	a.log.Debug().Str("reason", change.Reason.String()).Int("top", change.NewTop).Msg("layout")
}

// resize sizes the view to a screen of height rows. The last row is the
// status line.
func (a *App) resize(height int) {
	rows := height - 1
	if rows < 0 {
		rows = 0
	}
	a.view.Resize(rows)
}
