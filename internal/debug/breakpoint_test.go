package debug

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/glyphclick/internal/docview"
	"github.com/dshills/glyphclick/internal/margin"
	"github.com/dshills/glyphclick/internal/text"
)

var _ margin.Toggler = (*BreakpointManager)(nil)

func TestToggleBreakpoint(t *testing.T) {
	m := NewBreakpointManager()

	bp, added := m.ToggleBreakpoint("/src/main.go", 10)
	assert.True(t, added)
	assert.Equal(t, 1, bp.ID)
	assert.True(t, bp.Enabled)
	assert.True(t, m.HasBreakpointAt("/src/main.go", 10))

	bp, added = m.ToggleBreakpoint("/src/main.go", 10)
	assert.False(t, added)
	assert.Equal(t, 1, bp.ID)
	assert.False(t, m.HasBreakpointAt("/src/main.go", 10))
	assert.Equal(t, 0, m.Count())

	bp, _ = m.ToggleBreakpoint("/src/main.go", 10)
	assert.Equal(t, 2, bp.ID, "IDs are never reused")
}

func TestToggle_MapsPositionToLine(t *testing.T) {
	buf := text.NewBuffer("one\ntwo\nthree\n", text.WithPath("/src/a.go"))
	dv := docview.New(buf)

	var changes []Breakpoint
	m := NewBreakpointManager(WithOnChange(func(bp Breakpoint, added bool) {
		if added {
			changes = append(changes, bp)
		}
	}))

	m.Toggle(dv, 4)
	m.Toggle(dv, 8)

	assert.True(t, m.HasBreakpointAt("/src/a.go", 2))
	assert.True(t, m.HasBreakpointAt("/src/a.go", 3))
	require.Len(t, changes, 2)
	assert.Equal(t, 2, changes[0].Line)

	m.Toggle(dv, 4)
	assert.False(t, m.HasBreakpointAt("/src/a.go", 2))
}

func TestToggle_PositionOutOfRange(t *testing.T) {
	dv := docview.New(text.NewBuffer("x", text.WithPath("/src/x.go")))
	var out bytes.Buffer
	m := NewBreakpointManager(WithLogger(zerolog.New(&out)))

	m.Toggle(dv, 100)
	assert.Equal(t, 0, m.Count())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "breakpoints", entry["component"])
}

func TestGetBreakpointsForPath_Sorted(t *testing.T) {
	m := NewBreakpointManager()
	m.AddLineBreakpoint("/a.go", 30)
	m.AddLineBreakpoint("/a.go", 5)
	m.AddLineBreakpoint("/b.go", 1)
	again := m.AddLineBreakpoint("/a.go", 5)

	bps := m.GetBreakpointsForPath("/a.go")
	require.Len(t, bps, 2)
	assert.Equal(t, 5, bps[0].Line)
	assert.Equal(t, 30, bps[1].Line)
	assert.Equal(t, bps[0].ID, again.ID)

	assert.Empty(t, m.GetBreakpointsForPath("/missing.go"))
	assert.Len(t, m.GetAllBreakpoints(), 3)
}

func TestRemoveAndEnable(t *testing.T) {
	m := NewBreakpointManager()
	bp := m.AddLineBreakpoint("/a.go", 3)

	require.NoError(t, m.SetEnabled(bp.ID, false))
	got, ok := m.GetBreakpointAt("/a.go", 3)
	require.True(t, ok)
	assert.False(t, got.Enabled)

	require.NoError(t, m.RemoveBreakpoint(bp.ID))
	assert.ErrorIs(t, m.RemoveBreakpoint(bp.ID), ErrBreakpointNotFound)
	assert.ErrorIs(t, m.SetEnabled(bp.ID, true), ErrBreakpointNotFound)
}

func TestClearForPath(t *testing.T) {
	m := NewBreakpointManager()
	m.AddLineBreakpoint("/a.go", 1)
	m.AddLineBreakpoint("/a.go", 2)
	m.AddLineBreakpoint("/b.go", 1)

	m.ClearForPath("/a.go")
	assert.Equal(t, 1, m.Count())
	assert.True(t, m.HasBreakpointAt("/b.go", 1))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "breakpoints.json")

	m := NewBreakpointManager(WithPersistPath(path))
	m.AddLineBreakpoint("/a.go", 7)
	b := m.AddLineBreakpoint("/b.go", 9)
	require.NoError(t, m.SetEnabled(b.ID, false))
	require.NoError(t, m.Save())

	loaded := NewBreakpointManager(WithPersistPath(path))
	require.NoError(t, loaded.Load())
	assert.Equal(t, m.GetAllBreakpoints(), loaded.GetAllBreakpoints())

	next := loaded.AddLineBreakpoint("/c.go", 1)
	assert.Equal(t, 3, next.ID)
}

func TestLoad_MissingFile(t *testing.T) {
	m := NewBreakpointManager(WithPersistPath(filepath.Join(t.TempDir(), "none.json")))
	assert.NoError(t, m.Load())
	assert.Equal(t, 0, m.Count())
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	m := NewBreakpointManager(WithPersistPath(path))
	assert.Error(t, m.Load())
}

func TestPersistPathRequired(t *testing.T) {
	m := NewBreakpointManager()
	assert.ErrorIs(t, m.Save(), ErrNoPersistPath)
	assert.ErrorIs(t, m.Load(), ErrNoPersistPath)
}

type changeRecord struct {
	line  int
	added bool
}

func TestOnChange_EveryMutator(t *testing.T) {
	var changes []changeRecord
	m := NewBreakpointManager(WithOnChange(func(bp Breakpoint, added bool) {
		changes = append(changes, changeRecord{line: bp.Line, added: added})
	}))

	a := m.AddLineBreakpoint("/a.go", 1)
	m.AddLineBreakpoint("/a.go", 1)
	require.NoError(t, m.RemoveBreakpoint(a.ID))
	assert.ErrorIs(t, m.RemoveBreakpoint(a.ID), ErrBreakpointNotFound)
	m.AddLineBreakpoint("/a.go", 5)
	m.AddLineBreakpoint("/a.go", 2)
	m.ClearForPath("/a.go")
	m.ClearForPath("/a.go")

	assert.Equal(t, []changeRecord{
		{line: 1, added: true},
		{line: 1, added: false},
		{line: 5, added: true},
		{line: 2, added: true},
		{line: 2, added: false},
		{line: 5, added: false},
	}, changes)
}

func TestOnChange_CanQueryManager(t *testing.T) {
	var m *BreakpointManager
	var counts []int
	m = NewBreakpointManager(WithOnChange(func(Breakpoint, bool) {
		counts = append(counts, m.Count())
	}))

	m.AddLineBreakpoint("/a.go", 1)
	m.ToggleBreakpoint("/a.go", 2)
	m.ClearForPath("/a.go")

	assert.Equal(t, []int{1, 2, 0, 0}, counts)
}

func TestLoad_SkipsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breakpoints.json")
	content := `{"version":1,"breakpoints":[
		{"id":1,"path":"/a.go","line":3,"enabled":true},
		{"id":2,"path":"/a.go","line":3,"enabled":true},
		{"id":1,"path":"/b.go","line":4,"enabled":true},
		{"id":5,"path":"/b.go","line":4,"enabled":false}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m := NewBreakpointManager(WithPersistPath(path))
	require.NoError(t, m.Load())
	assert.Equal(t, 2, m.Count())

	_, added := m.ToggleBreakpoint("/a.go", 3)
	assert.False(t, added)
	assert.False(t, m.HasBreakpointAt("/a.go", 3))

	bp, ok := m.GetBreakpointAt("/b.go", 4)
	require.True(t, ok)
	assert.Equal(t, 5, bp.ID)
	assert.False(t, bp.Enabled)
}
