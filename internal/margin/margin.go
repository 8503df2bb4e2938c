package margin

import (
	"github.com/dshills/glyphclick/internal/event"
	"github.com/dshills/glyphclick/internal/view"
)

// Margin is the glyph margin of one text view. It owns the margin's pointer
// signals.
type Margin struct {
	surface Surface

	down  *event.Signal[*Context]
	up    *event.Signal[*Context]
	enter *event.Signal[*Context]
	leave *event.Signal[*Context]
}

// NewMargin creates the glyph margin for surface.
func NewMargin(surface Surface) *Margin {
	return &Margin{
		surface: surface,
		down:    event.NewSignal[*Context]("margin.pointer.down"),
		up:      event.NewSignal[*Context]("margin.pointer.up"),
		enter:   event.NewSignal[*Context]("margin.pointer.enter"),
		leave:   event.NewSignal[*Context]("margin.pointer.leave"),
	}
}

// Surface returns the view the margin is attached to.
func (m *Margin) Surface() Surface {
	return m.surface
}

// PointerDown returns the signal raised when a button is pressed in the margin.
func (m *Margin) PointerDown() *event.Signal[*Context] { return m.down }

// PointerUp returns the signal raised when a button is released in the margin.
func (m *Margin) PointerUp() *event.Signal[*Context] { return m.up }

// PointerEnter returns the signal raised when the pointer enters the margin.
func (m *Margin) PointerEnter() *event.Signal[*Context] { return m.enter }

// PointerLeave returns the signal raised when the pointer leaves the margin.
func (m *Margin) PointerLeave() *event.Signal[*Context] { return m.leave }

// Down raises PointerDown for line and reports whether a handler consumed it.
func (m *Margin) Down(line *view.Line) bool {
	return raise(m.down, PointerDown, line)
}

// Up raises PointerUp for line and reports whether a handler consumed it.
func (m *Margin) Up(line *view.Line) bool {
	return raise(m.up, PointerUp, line)
}

// Enter raises PointerEnter for line and reports whether a handler consumed it.
func (m *Margin) Enter(line *view.Line) bool {
	return raise(m.enter, PointerEnter, line)
}

// Leave raises PointerLeave for line and reports whether a handler consumed it.
func (m *Margin) Leave(line *view.Line) bool {
	return raise(m.leave, PointerLeave, line)
}

func raise(sig *event.Signal[*Context], kind PointerKind, line *view.Line) bool {
	ctx := &Context{Kind: kind, Line: line}
	sig.Emit(ctx)
	return ctx.Handled
}
