package view

import (
	"fmt"

	"github.com/dshills/glyphclick/internal/text"
)

// LineIdentity identifies one visual line across layout passes.
//
// Identities are compared by pointer. A view hands out the same identity for
// a buffer line as long as the line's text and start offset are unchanged and
// the line stays inside the view's cache window. Once evicted, the view keeps
// no reference to the identity, so holders that only keep a weak reference
// observe it as gone after the next collection.
type LineIdentity struct {
	source *text.Buffer
	line   int
	serial uint64
}

// String returns a debug representation of the identity.
func (id *LineIdentity) String() string {
	if id == nil {
		return "<nil>"
	}
	return fmt.Sprintf("line %d #%d", id.line+1, id.serial)
}

// Line is a visual line produced by one layout pass.
type Line struct {
	identity *LineIdentity

	// Number is the 0-based buffer line.
	Number int

	// Start is the byte offset of the line's first character in the buffer.
	Start int

	// Text is the line content without the trailing newline.
	Text string

	// Row is the screen row relative to the top of the view.
	Row int
}

// IdentityTag returns the line's identity.
func (l *Line) IdentityTag() *LineIdentity {
	if l == nil {
		return nil
	}
	return l.identity
}
