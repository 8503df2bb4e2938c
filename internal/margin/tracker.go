package margin

import (
	"errors"
	"sync"
	"weak"

	"github.com/rs/zerolog"

	"github.com/dshills/glyphclick/internal/docview"
	"github.com/dshills/glyphclick/internal/event"
	"github.com/dshills/glyphclick/internal/logging"
	"github.com/dshills/glyphclick/internal/view"
)

// Errors returned when constructing trackers and providers.
var (
	ErrNilMargin     = errors.New("margin is nil")
	ErrNilToggler    = errors.New("toggler is nil")
	ErrNotDebuggable = errors.New("view is not debuggable")
)

// options holds optional Tracker and Provider dependencies.
type options struct {
	resolve Resolver
	log     zerolog.Logger
}

func defaultOptions() options {
	return options{
		resolve: docview.TryGetDocumentViewer,
		log:     zerolog.Nop(),
	}
}

// Option configures a Tracker or Provider.
type Option func(*options)

// WithResolver overrides how the document viewer is found for a buffer.
func WithResolver(r Resolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolve = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Tracker recognizes breakpoint clicks in a glyph margin.
type Tracker struct {
	mu sync.Mutex

	margin  *Margin
	surface Surface
	toggler *Lazy[Toggler]
	resolve Resolver
	log     zerolog.Logger

	// pressed is nil when no press is in progress.
	pressed *weak.Pointer[view.LineIdentity]
	subs    []event.Subscription
	closed  bool
}

// NewTracker creates a tracker for m and subscribes it to the margin's
// pointer signals and the view's layout and close signals.
func NewTracker(m *Margin, toggler *Lazy[Toggler], opts ...Option) (*Tracker, error) {
	if m == nil {
		return nil, ErrNilMargin
	}
	if toggler == nil {
		return nil, ErrNilToggler
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &Tracker{
		margin:  m,
		surface: m.Surface(),
		toggler: toggler,
		resolve: o.resolve,
		log:     logging.WithComponent(o.log, "margin"),
	}

	prio := event.WithPriority(event.PriorityHigh)
	t.subs = []event.Subscription{
		m.PointerDown().Subscribe(t.OnPointerDown, prio),
		m.PointerUp().Subscribe(t.OnPointerUp, prio),
		m.PointerEnter().Subscribe(t.OnPointerEnter, prio),
		m.PointerLeave().Subscribe(t.OnPointerLeave, prio),
		t.surface.LayoutChanged().Subscribe(t.onLayoutChanged, prio),
		t.surface.Closed().Subscribe(t.onClosed, prio),
	}

	return t, nil
}

// OnPointerDown remembers the pressed line, replacing any earlier press.
func (t *Tracker) OnPointerDown(ctx *Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	id := contextIdentity(ctx)
	if id == nil {
		t.pressed = nil
		return
	}
	wp := weak.Make(id)
	t.pressed = &wp
}

// OnPointerUp toggles a breakpoint if the release is on the pressed line.
// The press is consumed whatever the outcome.
func (t *Tracker) OnPointerUp(ctx *Context) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	id := contextIdentity(ctx)
	sameLine := t.pressed != nil && id != nil && t.pressed.Value() == id
	t.pressed = nil
	t.mu.Unlock()

	if !sameLine {
		return
	}

	ctx.Handled = true

	buf := t.surface.TextBuffer()
	dv, ok := t.resolve(buf)
	if !ok || dv == nil {
		t.log.Warn().Str("path", buf.Path()).Msg("no document viewer for margin click")
		return
	}

	t.log.Debug().
		Str("document", dv.Title()).
		Int("line", ctx.Line.Number+1).
		Int("position", ctx.Line.Start).
		Msg("toggle breakpoint")
	t.toggler.Value().Toggle(dv, ctx.Line.Start)
}

// OnPointerEnter discards any press in progress.
func (t *Tracker) OnPointerEnter(*Context) {
	t.clearPressed()
}

// OnPointerLeave discards any press in progress.
func (t *Tracker) OnPointerLeave(*Context) {
	t.clearPressed()
}

func (t *Tracker) onLayoutChanged(view.LayoutChange) {
	t.clearPressed()
}

func (t *Tracker) onClosed(view.CloseEvent) {
	t.Close()
}

// Close detaches the tracker from the margin and view and discards any press.
// Close is idempotent.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	subs := t.subs
	t.subs = nil
	t.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}

	t.clearPressed()
	t.log.Debug().Msg("margin tracker closed")
}

// Armed reports whether a press is in progress.
func (t *Tracker) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pressed != nil
}

// Closed reports whether the tracker has been closed.
func (t *Tracker) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Tracker) clearPressed() {
	t.mu.Lock()
	t.pressed = nil
	t.mu.Unlock()
}

// pressedIdentity resolves the weak pointer to the pressed line identity.
// It returns nil when no press is in progress or the identity was collected.
func (t *Tracker) pressedIdentity() *view.LineIdentity {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pressed == nil {
		return nil
	}
	return t.pressed.Value()
}

func contextIdentity(ctx *Context) *view.LineIdentity {
	if ctx == nil {
		return nil
	}
	return ctx.Line.IdentityTag()
}
