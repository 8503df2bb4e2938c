package app

import (
	"context"
	"errors"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/glyphclick/internal/logging"
)

// Run runs the event loop until the user quits or ctx is cancelled. It
// returns ErrQuit when the user quits.
func (a *App) Run(ctx context.Context) error {
	if a.screen == nil {
		return ErrNotAttached
	}

	g, ctx := errgroup.WithContext(logging.WithContext(ctx, a.log))

	events := make(chan tcell.Event, 64)
	changed := make(chan struct{}, 1)

	g.Go(func() error {
		return a.pollEvents(ctx, events)
	})

	if a.config.Watch.Enabled && a.path != "" {
		w, err := newFileWatcher(a.path)
		if err != nil {
			a.log.Warn().Err(err).Msg("file watching disabled")
		} else {
			g.Go(func() error {
				return w.run(ctx, changed)
			})
		}
	}

	g.Go(func() error {
		// Wake the poller so it sees the cancelled context.
		defer func() { _ = a.screen.PostEvent(tcell.NewEventInterrupt(nil)) }()
		return a.loop(ctx, events, changed)
	})

	return g.Wait()
}

// pollEvents reads terminal events until the screen is finalized or ctx is
// done.
func (a *App) pollEvents(ctx context.Context, events chan<- tcell.Event) error {
	for {
		ev := a.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) loop(ctx context.Context, events <-chan tcell.Event, changed <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if err := a.HandleEvent(ev); err != nil {
				return err
			}
			a.Draw()

		case <-changed:
			a.reload()
			a.Draw()
		}
	}
}

// reload re-reads the open file into the view.
func (a *App) reload() {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			a.log.Warn().Str("path", a.path).Msg("file removed, keeping last content")
			return
		}
		a.log.Warn().Err(err).Str("path", a.path).Msg("reload failed")
		return
	}
	if string(data) == a.buffer.Text() {
		return
	}
	if err := a.view.Reload(string(data)); err != nil {
		a.log.Warn().Err(err).Msg("reload failed")
		return
	}
	a.log.Info().Str("path", a.path).Int("lines", a.buffer.LineCount()).Msg("file reloaded")
}
