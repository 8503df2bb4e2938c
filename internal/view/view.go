// Package view provides the text view that hosts a Glyphclick glyph margin.
//
// A TextView shows a window of a text.Buffer. Every layout pass (initial
// layout, scroll, resize, content reload) produces a fresh set of Line values
// and raises the LayoutChanged signal. Line identities are kept stable for
// unchanged lines near the viewport and dropped once they leave the cache
// window, so anything remembering a line across layout passes must tolerate
// the identity going away.
package view

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/glyphclick/internal/event"
	"github.com/dshills/glyphclick/internal/text"
)

// Well-known view roles.
const (
	// RoleDebuggable marks views whose glyph margin toggles breakpoints.
	RoleDebuggable = "debuggable"

	// RoleInteractive marks views that accept pointer input.
	RoleInteractive = "interactive"
)

// ErrClosed is returned by operations on a closed view.
var ErrClosed = errors.New("view is closed")

// LayoutReason describes why a layout pass ran.
type LayoutReason uint8

const (
	LayoutInitial LayoutReason = iota
	LayoutScroll
	LayoutResize
	LayoutContent
)

// String returns a string representation of the reason.
func (r LayoutReason) String() string {
	switch r {
	case LayoutInitial:
		return "initial"
	case LayoutScroll:
		return "scroll"
	case LayoutResize:
		return "resize"
	case LayoutContent:
		return "content"
	default:
		return "unknown"
	}
}

// LayoutChange is emitted after every layout pass.
type LayoutChange struct {
	Reason LayoutReason
	OldTop int
	NewTop int
	Height int
	Lines  []*Line
}

// CloseEvent is emitted once when the view closes.
type CloseEvent struct {
	Path string
}

// Config configures a TextView.
type Config struct {
	// Height is the number of visible rows.
	Height int

	// CacheSize is the maximum number of cached line identities.
	CacheSize int

	// PrefetchLines is how many lines above and below the viewport keep
	// their identities.
	PrefetchLines int
}

// DefaultConfig returns the default view configuration.
func DefaultConfig() Config {
	return Config{
		Height:        24,
		CacheSize:     500,
		PrefetchLines: 20,
	}
}

// Option configures optional TextView dependencies.
type Option func(*TextView)

// WithLogger sets the view logger.
func WithLogger(log zerolog.Logger) Option {
	return func(v *TextView) {
		v.log = log
	}
}

// WithRoles assigns roles to the view.
func WithRoles(roles ...string) Option {
	return func(v *TextView) {
		for _, r := range roles {
			v.roles[r] = struct{}{}
		}
	}
}

// TextView is a scrollable window onto a text buffer.
type TextView struct {
	mu sync.Mutex

	buffer *text.Buffer
	config Config
	roles  map[string]struct{}
	log    zerolog.Logger

	top    int
	height int
	lines  []*Line
	pass   uint64
	cache  *lineCache
	closed bool

	layoutChanged *event.Signal[LayoutChange]
	closedSig     *event.Signal[CloseEvent]
}

// New creates a view over buf and performs the initial layout.
func New(buf *text.Buffer, config Config, opts ...Option) *TextView {
	if config.Height < 0 {
		config.Height = 0
	}
	if config.PrefetchLines < 0 {
		config.PrefetchLines = 0
	}

	v := &TextView{
		buffer:        buf,
		config:        config,
		roles:         make(map[string]struct{}),
		log:           zerolog.Nop(),
		height:        config.Height,
		cache:         newLineCache(config.CacheSize),
		layoutChanged: event.NewSignal[LayoutChange]("view.layout.changed"),
		closedSig:     event.NewSignal[CloseEvent]("view.closed"),
	}
	for _, opt := range opts {
		opt(v)
	}

	v.mu.Lock()
	v.layoutLocked()
	v.mu.Unlock()

	return v
}

// TextBuffer returns the buffer shown by the view.
func (v *TextView) TextBuffer() *text.Buffer {
	return v.buffer
}

// HasRole reports whether the view carries role.
func (v *TextView) HasRole(role string) bool {
	_, ok := v.roles[role]
	return ok
}

// LayoutChanged returns the signal raised after every layout pass.
func (v *TextView) LayoutChanged() *event.Signal[LayoutChange] {
	return v.layoutChanged
}

// Closed returns the signal raised once when the view closes.
func (v *TextView) Closed() *event.Signal[CloseEvent] {
	return v.closedSig
}

// Top returns the first visible buffer line.
func (v *TextView) Top() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.top
}

// Height returns the number of visible rows.
func (v *TextView) Height() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.height
}

// Lines returns the lines of the current layout.
func (v *TextView) Lines() []*Line {
	v.mu.Lock()
	defer v.mu.Unlock()

	lines := make([]*Line, len(v.lines))
	copy(lines, v.lines)
	return lines
}

// LineAtRow returns the line shown at a screen row relative to the view top.
func (v *TextView) LineAtRow(row int) (*Line, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if row < 0 || row >= len(v.lines) {
		return nil, false
	}
	return v.lines[row], true
}

// ScrollBy scrolls the view by delta lines. It returns false if the top line
// did not change.
func (v *TextView) ScrollBy(delta int) bool {
	v.mu.Lock()
	top := v.top + delta
	v.mu.Unlock()
	return v.ScrollTo(top)
}

// ScrollTo makes line the first visible line, clamped to the buffer.
func (v *TextView) ScrollTo(line int) bool {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return false
	}
	line = v.clampTop(line)
	if line == v.top {
		v.mu.Unlock()
		return false
	}
	old := v.top
	v.top = line
	change := v.layoutLocked()
	change.Reason = LayoutScroll
	change.OldTop = old
	v.mu.Unlock()

	v.emitLayout(change)
	return true
}

// Resize changes the number of visible rows.
func (v *TextView) Resize(height int) {
	if height < 0 {
		height = 0
	}

	v.mu.Lock()
	if v.closed || height == v.height {
		v.mu.Unlock()
		return
	}
	v.height = height
	old := v.top
	v.top = v.clampTop(v.top)
	change := v.layoutLocked()
	change.Reason = LayoutResize
	change.OldTop = old
	v.mu.Unlock()

	v.emitLayout(change)
}

// Reload replaces the buffer content and lays the view out again.
func (v *TextView) Reload(content string) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	v.buffer.SetText(content)
	old := v.top
	v.top = v.clampTop(v.top)
	change := v.layoutLocked()
	change.Reason = LayoutContent
	change.OldTop = old
	v.mu.Unlock()

	v.emitLayout(change)
	return nil
}

// Close closes the view and raises the Closed signal. Close is idempotent.
func (v *TextView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.lines = nil
	v.cache.clear()
	v.mu.Unlock()

	v.log.Debug().Str("path", v.buffer.Path()).Msg("view closed")
	v.closedSig.Emit(CloseEvent{Path: v.buffer.Path()})

	// Nothing is emitted after close; drop whatever is still attached.
	v.layoutChanged.Reset()
	v.closedSig.Reset()
}

// IsClosed reports whether Close has been called.
func (v *TextView) IsClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// CacheStats returns line identity cache statistics.
func (v *TextView) CacheStats() CacheStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cache.stats()
}

// clampTop clamps a top line so the last page stays full.
// Caller must hold the lock.
func (v *TextView) clampTop(top int) int {
	maxTop := v.buffer.LineCount() - v.height
	if maxTop < 0 {
		maxTop = 0
	}
	if top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	return top
}

// layoutLocked rebuilds the visible lines. Caller must hold the lock.
func (v *TextView) layoutLocked() LayoutChange {
	v.pass++

	count := v.buffer.LineCount()
	lines := make([]*Line, 0, v.height)
	for row := 0; row < v.height; row++ {
		n := v.top + row
		if n >= count {
			break
		}
		content, err := v.buffer.LineText(n)
		if err != nil {
			break
		}
		start, err := v.buffer.LineStartOffset(n)
		if err != nil {
			break
		}
		lines = append(lines, &Line{
			identity: v.cache.identity(v.buffer, n, start, content, v.pass),
			Number:   n,
			Start:    start,
			Text:     content,
			Row:      row,
		})
	}
	v.lines = lines

	prefetch := v.config.PrefetchLines
	v.cache.retain(v.top-prefetch, v.top+v.height+prefetch)

	out := make([]*Line, len(lines))
	copy(out, lines)
	return LayoutChange{
		Reason: LayoutInitial,
		OldTop: v.top,
		NewTop: v.top,
		Height: v.height,
		Lines:  out,
	}
}

func (v *TextView) emitLayout(change LayoutChange) {
	v.log.Debug().
		Str("reason", change.Reason.String()).
		Int("old_top", change.OldTop).
		Int("new_top", change.NewTop).
		Int("lines", len(change.Lines)).
		Msg("layout changed")
	v.layoutChanged.Emit(change)
}
