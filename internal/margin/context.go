package margin

import (
	"github.com/dshills/glyphclick/internal/docview"
	"github.com/dshills/glyphclick/internal/event"
	"github.com/dshills/glyphclick/internal/text"
	"github.com/dshills/glyphclick/internal/view"
)

// PointerKind identifies a margin pointer signal.
type PointerKind uint8

const (
	PointerDown PointerKind = iota
	PointerUp
	PointerEnter
	PointerLeave
)

// String returns a string representation of the pointer kind.
func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	case PointerEnter:
		return "enter"
	case PointerLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// Context is passed to every margin pointer handler.
type Context struct {
	// Kind is the signal being raised.
	Kind PointerKind

	// Line is the visual line under the pointer, or nil if the pointer is
	// below the last line.
	Line *view.Line

	// Handled suppresses the host's default handling when set by a handler.
	Handled bool
}

// Surface is the text view a margin is attached to.
type Surface interface {
	// TextBuffer returns the buffer currently shown.
	TextBuffer() *text.Buffer

	// HasRole reports whether the view carries a role.
	HasRole(role string) bool

	// LayoutChanged is raised after every layout pass.
	LayoutChanged() *event.Signal[view.LayoutChange]

	// Closed is raised once when the view closes.
	Closed() *event.Signal[view.CloseEvent]
}

// Resolver finds the document viewer for a buffer.
type Resolver func(buf *text.Buffer) (*docview.DocumentViewer, bool)

// Toggler toggles a breakpoint at a text position of a document.
type Toggler interface {
	Toggle(dv *docview.DocumentViewer, position int)
}

// TogglerFunc adapts a function to Toggler.
type TogglerFunc func(dv *docview.DocumentViewer, position int)

// Toggle implements Toggler.
func (f TogglerFunc) Toggle(dv *docview.DocumentViewer, position int) {
	f(dv, position)
}
