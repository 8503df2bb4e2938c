package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/glyphclick/internal/input/mouse"
)

// HandleEvent handles one terminal event. It returns ErrQuit when the user
// asks to quit.
func (a *App) HandleEvent(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(e)
	case *tcell.EventMouse:
		for _, mev := range a.decoder.DecodeTcell(e) {
			a.handleMouse(mev)
		}
	case *tcell.EventResize:
		// A release can be lost while the terminal is resized.
		a.decoder.Reset()
		_, h := e.Size()
		a.resize(h)
		if a.screen != nil {
			a.screen.Sync()
		}
	case *tcell.EventFocus:
		if !e.Focused {
			a.handleFocusLost()
		}
	}
	return nil
}

// handleFocusLost forgets the pointer. Mouse reports stop while the terminal
// is unfocused, so the held button and margin hover are unknown.
func (a *App) handleFocusLost() {
	a.decoder.Reset()
	if a.inMargin {
		a.inMargin = false
		a.margin.Leave(nil)
		a.gutter.SetCurrentLine(-1)
	}
}

func (a *App) handleKey(ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ErrQuit
	case tcell.KeyUp:
		a.view.ScrollBy(-1)
	case tcell.KeyDown:
		a.view.ScrollBy(1)
	case tcell.KeyPgUp:
		a.view.ScrollBy(-a.view.Height())
	case tcell.KeyPgDn:
		a.view.ScrollBy(a.view.Height())
	case tcell.KeyHome:
		a.view.ScrollTo(0)
	case tcell.KeyEnd:
		a.view.ScrollTo(a.buffer.LineCount())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return ErrQuit
		case 'k':
			a.view.ScrollBy(-1)
		case 'j':
			a.view.ScrollBy(1)
		}
	}
	return nil
}

// handleMouse routes a decoded mouse event. Wheel events scroll the view.
// Everything else is checked against the glyph margin: crossing its edge
// raises enter or leave, and left button presses and releases inside it
// raise down and up for the line under the pointer.
func (a *App) handleMouse(ev mouse.Event) {
	if s := mouse.ParseScrollEvent(ev, a.mouseConfig); s != nil {
		if s.IsVertical() {
			a.view.ScrollBy(s.Delta())
		}
		return
	}

	x, y := ev.Position.X, ev.Position.Y
	inMargin := a.gutter.InSignColumn(x) && y >= 0 && y < a.view.Height()
	line, _ := a.view.LineAtRow(y)

	if inMargin != a.inMargin {
		a.inMargin = inMargin
		if inMargin {
			a.margin.Enter(line)
		} else {
			a.margin.Leave(line)
			a.gutter.SetCurrentLine(-1)
		}
	}
	if !inMargin {
		return
	}

	if line != nil {
		a.gutter.SetCurrentLine(line.Number)
	} else {
		a.gutter.SetCurrentLine(-1)
	}

	if ev.Button != mouse.ButtonLeft {
		return
	}
	switch ev.Action {
	case mouse.ActionPress:
		a.margin.Down(line)
	case mouse.ActionRelease:
		if a.margin.Up(line) {
			a.log.Debug().Int("row", y).Msg("margin click handled")
		}
	}
}
