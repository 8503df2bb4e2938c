// Package docview associates document viewers with text buffers.
//
// A DocumentViewer is the document-level object a debugger works with: it
// names the document shown in a view and owns the buffer holding its text.
// Viewers are attached to their buffer through the buffer's property bag, so
// code that only has a buffer (a glyph margin, a text view) can find the
// viewer without holding a reference to it.
package docview

import (
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dshills/glyphclick/internal/text"
)

// propertyKey is the buffer property key for the attached viewer.
type propertyKey struct{}

// DocumentViewer is a document shown in a text view.
type DocumentViewer struct {
	id     string
	title  string
	buffer *text.Buffer
}

// New creates a viewer for buf and attaches it to the buffer, replacing any
// previously attached viewer.
func New(buf *text.Buffer) *DocumentViewer {
	title := filepath.Base(buf.Path())
	if buf.Path() == "" {
		title = "untitled"
	}

	dv := &DocumentViewer{
		id:     uuid.NewString(),
		title:  title,
		buffer: buf,
	}
	buf.SetProperty(propertyKey{}, dv)
	return dv
}

// ID returns the viewer's unique identifier.
func (dv *DocumentViewer) ID() string {
	return dv.id
}

// Title returns a display name for the document.
func (dv *DocumentViewer) Title() string {
	return dv.title
}

// Path returns the document's file path, or "" for scratch documents.
func (dv *DocumentViewer) Path() string {
	return dv.buffer.Path()
}

// TextBuffer returns the buffer holding the document text.
func (dv *DocumentViewer) TextBuffer() *text.Buffer {
	return dv.buffer
}

// Detach removes the viewer from its buffer. It is a no-op if another viewer
// has replaced it.
func (dv *DocumentViewer) Detach() {
	if cur, ok := TryGetDocumentViewer(dv.buffer); ok && cur == dv {
		dv.buffer.RemoveProperty(propertyKey{})
	}
}

// TryGetDocumentViewer returns the viewer attached to buf.
func TryGetDocumentViewer(buf *text.Buffer) (*DocumentViewer, bool) {
	if buf == nil {
		return nil, false
	}
	v, ok := buf.Property(propertyKey{})
	if !ok {
		return nil, false
	}
	dv, ok := v.(*DocumentViewer)
	return dv, ok
}
