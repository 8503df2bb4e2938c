// Package text provides the text buffer shown by a Glyphclick view.
//
// A Buffer holds normalized (LF) text, a line index for offset and line
// conversions, a revision counter bumped on every content change, and a
// property bag that lets other subsystems attach objects to a buffer without
// the buffer knowing about them.
package text

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrLineOutOfRange   = errors.New("line out of range")
	ErrOffsetOutOfRange = errors.New("offset out of range")
)

// Buffer is a line-indexed text buffer.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	path       string
	content    string
	lineStarts []int
	revision   uint64
	properties map[any]any
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithPath sets the file path the buffer was loaded from.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}

// NewBuffer creates a buffer with initial content.
func NewBuffer(s string, opts ...Option) *Buffer {
	b := &Buffer{
		properties: make(map[any]any),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.setContent(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBuffer(string(data), opts...), nil
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// setContent replaces the content and rebuilds the line index.
// Caller must hold the write lock or own b exclusively.
func (b *Buffer) setContent(s string) {
	s = normalizeLineEndings(s)
	b.content = s
	b.lineStarts = b.lineStarts[:0]
	b.lineStarts = append(b.lineStarts, 0)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
	b.revision++
}

// Path returns the file path, or "" for scratch buffers.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content
}

// Len returns the content length in bytes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.content)
}

// Revision returns the content revision. It starts at 1 and increases on
// every SetText.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// SetText replaces the whole content.
func (b *Buffer) SetText(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setContent(s)
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lineStarts)
}

// LineText returns the text of a line without its terminating newline.
func (b *Buffer) LineText(line int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if line < 0 || line >= len(b.lineStarts) {
		return "", ErrLineOutOfRange
	}
	start, end := b.lineBounds(line)
	return b.content[start:end], nil
}

// LineStartOffset returns the byte offset of the first byte of a line.
func (b *Buffer) LineStartOffset(line int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if line < 0 || line >= len(b.lineStarts) {
		return 0, ErrLineOutOfRange
	}
	return b.lineStarts[line], nil
}

// LineAtOffset returns the line containing the byte offset.
// The offset equal to Len is valid and maps to the last line.
func (b *Buffer) LineAtOffset(offset int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 || offset > len(b.content) {
		return 0, ErrOffsetOutOfRange
	}
	// First line start greater than offset, minus one.
	i := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	})
	return i - 1, nil
}

// lineBounds returns [start, end) of a line excluding the newline.
// Caller must hold the lock.
func (b *Buffer) lineBounds(line int) (int, int) {
	start := b.lineStarts[line]
	end := len(b.content)
	if line+1 < len(b.lineStarts) {
		end = b.lineStarts[line+1] - 1
	}
	return start, end
}

// Property returns the value stored under key.
func (b *Buffer) Property(key any) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.properties[key]
	return v, ok
}

// SetProperty stores value under key, replacing any previous value.
func (b *Buffer) SetProperty(key, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.properties[key] = value
}

// RemoveProperty deletes key from the property bag.
func (b *Buffer) RemoveProperty(key any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.properties, key)
}
