package margin

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dshills/glyphclick/internal/docview"
	"github.com/dshills/glyphclick/internal/text"
	"github.com/dshills/glyphclick/internal/view"
)

const source = "package main\n\nfunc main() {\n\tprintln(1)\n}\n"

type mockToggler struct {
	mock.Mock
}

func (m *mockToggler) Toggle(dv *docview.DocumentViewer, position int) {
	m.Called(dv, position)
}

type fixture struct {
	buf     *text.Buffer
	view    *view.TextView
	dv      *docview.DocumentViewer
	margin  *Margin
	toggler *mockToggler
	lazy    *Lazy[Toggler]
	tracker *Tracker
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		buf:     text.NewBuffer(source, text.WithPath("/src/main.go")),
		toggler: &mockToggler{},
	}
	f.dv = docview.New(f.buf)
	f.view = view.New(f.buf, view.Config{Height: 5, CacheSize: 100, PrefetchLines: 5},
		view.WithRoles(view.RoleDebuggable))
	f.lazy = NewLazy(func() Toggler { return f.toggler })
	f.margin = NewMargin(f.view)

	tracker, err := NewTracker(f.margin, f.lazy, opts...)
	require.NoError(t, err)
	f.tracker = tracker

	t.Cleanup(func() { f.toggler.AssertExpectations(t) })
	return f
}

// line returns the line currently shown at row.
func (f *fixture) line(t *testing.T, row int) *view.Line {
	t.Helper()
	line, ok := f.view.LineAtRow(row)
	require.True(t, ok, "no line at row %d", row)
	return line
}

// lineNumber returns the line currently showing buffer line n.
func (f *fixture) lineNumber(t *testing.T, n int) *view.Line {
	t.Helper()
	for _, line := range f.view.Lines() {
		if line.Number == n {
			return line
		}
	}
	t.Fatalf("buffer line %d not visible", n)
	return nil
}

func TestPointerKind_String(t *testing.T) {
	tests := []struct {
		kind     PointerKind
		expected string
	}{
		{PointerDown, "down"},
		{PointerUp, "up"},
		{PointerEnter, "enter"},
		{PointerLeave, "leave"},
		{PointerKind(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.kind.String())
	}
}

func TestTracker_ClickSameLineToggles(t *testing.T) {
	f := newFixture(t)
	f.toggler.On("Toggle", f.dv, 28).Once()

	a := f.line(t, 3)
	assert.False(t, f.margin.Down(a), "press is never consumed")
	assert.True(t, f.tracker.Armed())

	assert.True(t, f.margin.Up(a))
	assert.False(t, f.tracker.Armed())
	f.toggler.AssertNumberOfCalls(t, "Toggle", 1)
}

func TestTracker_LayoutChangeCancelsClick(t *testing.T) {
	f := newFixture(t)

	a := f.lineNumber(t, 3)
	f.margin.Down(a)
	require.True(t, f.view.ScrollBy(1))
	assert.False(t, f.tracker.Armed())

	again := f.lineNumber(t, 3)
	assert.Same(t, a.IdentityTag(), again.IdentityTag(), "identity survives the scroll")

	assert.False(t, f.margin.Up(again))
	f.toggler.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything)
}

func TestTracker_LeaveAndEnterCancelClick(t *testing.T) {
	f := newFixture(t)

	a := f.line(t, 2)
	f.margin.Down(a)
	f.margin.Leave(nil)
	f.margin.Enter(a)

	assert.False(t, f.margin.Up(a))
	assert.False(t, f.tracker.Armed())
	f.toggler.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything)
}

func TestTracker_EnterAloneCancelsClick(t *testing.T) {
	f := newFixture(t)

	a := f.line(t, 2)
	f.margin.Down(a)
	f.margin.Enter(a)

	assert.False(t, f.margin.Up(a))
	f.toggler.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything)
}

func TestTracker_ReleaseOnOtherLine(t *testing.T) {
	f := newFixture(t)

	f.margin.Down(f.line(t, 0))
	assert.False(t, f.margin.Up(f.line(t, 1)))

	assert.False(t, f.tracker.Armed())
	f.toggler.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything)

	// The press was consumed: releasing again on the first line does nothing.
	assert.False(t, f.margin.Up(f.line(t, 0)))
}

func TestTracker_ReleaseWithoutPress(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.margin.Up(f.line(t, 0)))
	assert.False(t, f.tracker.Armed())
}

func TestTracker_SecondPressReplacesFirst(t *testing.T) {
	f := newFixture(t)
	f.toggler.On("Toggle", f.dv, 14).Once()

	f.margin.Down(f.line(t, 0))
	f.margin.Down(f.line(t, 2))

	assert.False(t, f.margin.Up(f.line(t, 0)))
	f.margin.Down(f.line(t, 0))
	f.margin.Down(f.line(t, 2))
	assert.True(t, f.margin.Up(f.line(t, 2)))
}

func TestTracker_PressBelowLastLineClears(t *testing.T) {
	f := newFixture(t)

	a := f.line(t, 1)
	f.margin.Down(a)
	f.margin.Down(nil)
	assert.False(t, f.tracker.Armed())

	assert.False(t, f.margin.Up(a))
	assert.False(t, f.margin.Up(nil))
}

func TestTracker_InvalidationWhenEmptyIsNoop(t *testing.T) {
	f := newFixture(t)

	f.margin.Enter(nil)
	f.margin.Leave(nil)
	f.view.LayoutChanged().Emit(view.LayoutChange{})

	assert.False(t, f.tracker.Armed())
	assert.False(t, f.tracker.Closed())
}

// pressTransientLine presses a line of a view nothing else references.
func pressTransientLine(tr *Tracker) {
	v := view.New(text.NewBuffer("transient"), view.DefaultConfig())
	line, _ := v.LineAtRow(0)
	tr.OnPointerDown(&Context{Kind: PointerDown, Line: line})
}

func TestTracker_ReclaimedLineDoesNotToggle(t *testing.T) {
	f := newFixture(t)

	pressTransientLine(f.tracker)
	require.True(t, f.tracker.Armed())

	require.Eventually(t, func() bool {
		runtime.GC()
		return f.tracker.pressedIdentity() == nil
	}, time.Second, 10*time.Millisecond, "pressed identity should be collected")

	assert.True(t, f.tracker.Armed(), "press state is only consumed by a terminating signal")
	assert.False(t, f.margin.Up(f.line(t, 0)))
	assert.False(t, f.tracker.Armed())
	f.toggler.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything)
}

func TestTracker_PressDoesNotPinLine(t *testing.T) {
	f := newFixture(t)

	a := f.line(t, 4)
	f.margin.Down(a)
	runtime.GC()

	// a is still referenced here, so the identity must resolve.
	assert.Same(t, a.IdentityTag(), f.tracker.pressedIdentity())
	runtime.KeepAlive(a)
}

func TestTracker_MissingDocumentViewerSkipsToggle(t *testing.T) {
	f := newFixture(t)
	f.dv.Detach()

	a := f.line(t, 3)
	f.margin.Down(a)

	assert.True(t, f.margin.Up(a), "a same-line release is consumed even without a viewer")
	assert.False(t, f.lazy.Created())
	f.toggler.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything)
}

func TestTracker_MissingDocumentViewerLogsWarning(t *testing.T) {
	var out bytes.Buffer
	f := newFixture(t, WithLogger(zerolog.New(&out).Level(zerolog.WarnLevel)))
	f.dv.Detach()

	a := f.line(t, 3)
	f.margin.Down(a)
	f.margin.Up(a)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "margin", entry["component"])
	assert.Equal(t, "/src/main.go", entry["path"])
}

func TestTracker_CustomResolver(t *testing.T) {
	other := docview.New(text.NewBuffer("other", text.WithPath("/src/other.go")))
	f := newFixture(t, WithResolver(func(*text.Buffer) (*docview.DocumentViewer, bool) {
		return other, true
	}))
	f.toggler.On("Toggle", other, 0).Once()

	a := f.line(t, 0)
	f.margin.Down(a)
	assert.True(t, f.margin.Up(a))
}

func TestTracker_TogglerResolvedLazily(t *testing.T) {
	f := newFixture(t)
	f.toggler.On("Toggle", f.dv, 13).Once()

	assert.False(t, f.lazy.Created())

	a := f.line(t, 1)
	f.margin.Down(a)
	assert.False(t, f.lazy.Created())

	f.margin.Up(a)
	assert.True(t, f.lazy.Created())
}

func TestTracker_ViewCloseDetaches(t *testing.T) {
	f := newFixture(t)

	a := f.line(t, 3)
	f.margin.Down(a)
	f.view.Close()

	assert.True(t, f.tracker.Closed())
	assert.False(t, f.tracker.Armed())

	assert.Equal(t, 0, f.margin.PointerDown().Len())
	assert.Equal(t, 0, f.margin.PointerUp().Len())
	assert.Equal(t, 0, f.margin.PointerEnter().Len())
	assert.Equal(t, 0, f.margin.PointerLeave().Len())
	assert.Equal(t, 0, f.view.LayoutChanged().Len())
	assert.Equal(t, 0, f.view.Closed().Len())

	// Signals raised after close have no effect.
	assert.False(t, f.margin.Down(a))
	assert.False(t, f.margin.Up(a))
	f.tracker.OnPointerDown(&Context{Line: a})
	f.tracker.OnPointerUp(&Context{Line: a})
	assert.False(t, f.tracker.Armed())
	assert.False(t, f.lazy.Created())
	f.toggler.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything)
}

func TestTracker_CloseIsIdempotent(t *testing.T) {
	f := newFixture(t)

	f.tracker.Close()
	f.tracker.Close()
	f.view.Close()

	assert.True(t, f.tracker.Closed())
	assert.Equal(t, 0, f.view.Closed().Len())
}

func TestTracker_CloseLeavesOtherSubscribers(t *testing.T) {
	f := newFixture(t)

	closed := 0
	f.view.Closed().Subscribe(func(view.CloseEvent) { closed++ })
	f.tracker.Close()
	assert.Equal(t, 1, f.view.Closed().Len())

	f.view.Close()
	assert.Equal(t, 1, closed)
}

func TestNewTracker_Validation(t *testing.T) {
	lazy := NewLazy(func() Toggler { return TogglerFunc(func(*docview.DocumentViewer, int) {}) })

	_, err := NewTracker(nil, lazy)
	assert.ErrorIs(t, err, ErrNilMargin)

	v := view.New(text.NewBuffer("x"), view.DefaultConfig())
	_, err = NewTracker(NewMargin(v), nil)
	assert.ErrorIs(t, err, ErrNilToggler)
}

// TestTracker_RandomSequences checks the tracker against a reference model
// for random signal sequences.
func TestTracker_RandomSequences(t *testing.T) {
	buf := text.NewBuffer(source, text.WithPath("/src/main.go"))
	docview.New(buf)
	v := view.New(buf, view.Config{Height: 5, CacheSize: 100, PrefetchLines: 5},
		view.WithRoles(view.RoleDebuggable))
	m := NewMargin(v)

	var toggles []int
	lazy := NewLazy(func() Toggler {
		return TogglerFunc(func(_ *docview.DocumentViewer, pos int) { toggles = append(toggles, pos) })
	})
	tr, err := NewTracker(m, lazy)
	require.NoError(t, err)

	lines := v.Lines()
	rng := rand.New(rand.NewSource(42))

	var armed *view.Line
	expected := 0

	for step := 0; step < 5000; step++ {
		line := lines[rng.Intn(len(lines))]

		switch rng.Intn(5) {
		case 0:
			m.Down(line)
			armed = line
		case 1:
			handled := m.Up(line)
			fire := armed != nil && armed.IdentityTag() == line.IdentityTag()
			if fire {
				expected++
			}
			assert.Equal(t, fire, handled, "step %d", step)
			armed = nil
		case 2:
			m.Enter(line)
			armed = nil
		case 3:
			m.Leave(line)
			armed = nil
		case 4:
			v.LayoutChanged().Emit(view.LayoutChange{Reason: view.LayoutScroll})
			armed = nil
		}

		require.Equal(t, armed != nil, tr.Armed(), "step %d", step)
	}

	assert.Len(t, toggles, expected)
	assert.Positive(t, expected)
}
