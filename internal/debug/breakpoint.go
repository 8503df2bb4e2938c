// Package debug keeps the set of source breakpoints toggled from the glyph
// margin.
package debug

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/glyphclick/internal/docview"
	"github.com/dshills/glyphclick/internal/logging"
)

// Errors returned by the breakpoint manager.
var (
	ErrBreakpointNotFound = errors.New("breakpoint not found")
	ErrNoPersistPath      = errors.New("persist path not set")
)

// Breakpoint represents a user-defined line breakpoint.
type Breakpoint struct {
	// ID is a unique identifier for this breakpoint.
	ID int `json:"id"`

	// Path is the source file path.
	Path string `json:"path"`

	// Line is the line number (1-based).
	Line int `json:"line"`

	// Enabled indicates if the breakpoint is enabled.
	Enabled bool `json:"enabled"`
}

// ChangeFunc is called after a breakpoint is added or removed.
type ChangeFunc func(bp Breakpoint, added bool)

// Option configures a BreakpointManager.
type Option func(*BreakpointManager)

// WithLogger sets the manager logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *BreakpointManager) {
		m.log = logging.WithComponent(log, "breakpoints")
	}
}

// WithPersistPath sets the file breakpoints are saved to and loaded from.
func WithPersistPath(path string) Option {
	return func(m *BreakpointManager) {
		m.persistPath = path
	}
}

// WithOnChange registers a callback run after every add or remove. It runs
// without the manager lock held, once per changed breakpoint.
func WithOnChange(fn ChangeFunc) Option {
	return func(m *BreakpointManager) {
		m.onChange = fn
	}
}

// BreakpointManager manages line breakpoints grouped by file.
type BreakpointManager struct {
	mu sync.RWMutex

	// All breakpoints by ID
	breakpoints map[int]*Breakpoint

	// Breakpoints grouped by file path
	byPath map[string][]*Breakpoint

	nextID      int
	persistPath string
	onChange    ChangeFunc
	log         zerolog.Logger
}

// NewBreakpointManager creates an empty breakpoint manager.
func NewBreakpointManager(opts ...Option) *BreakpointManager {
	m := &BreakpointManager{
		breakpoints: make(map[int]*Breakpoint),
		byPath:      make(map[string][]*Breakpoint),
		nextID:      1,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *BreakpointManager) allocateID() int {
	id := m.nextID
	m.nextID++
	return id
}

// Toggle toggles a breakpoint on the line of dv containing position.
func (m *BreakpointManager) Toggle(dv *docview.DocumentViewer, position int) {
	line, err := dv.TextBuffer().LineAtOffset(position)
	if err != nil {
		m.log.Warn().Err(err).Str("document", dv.Title()).Int("position", position).
			Msg("toggle position outside document")
		return
	}

	bp, added := m.ToggleBreakpoint(dv.Path(), line+1)
	m.log.Info().
		Str("document", dv.Title()).
		Int("line", bp.Line).
		Bool("added", added).
		Msg("breakpoint toggled")
}

// ToggleBreakpoint removes the breakpoint at path:line if there is one and
// adds it otherwise. It reports whether the breakpoint was added.
func (m *BreakpointManager) ToggleBreakpoint(path string, line int) (Breakpoint, bool) {
	m.mu.Lock()

	for _, bp := range m.byPath[path] {
		if bp.Line == line {
			m.removeLocked(bp)
			out := *bp
			fn := m.onChange
			m.mu.Unlock()
			if fn != nil {
				fn(out, false)
			}
			return out, false
		}
	}

	bp := m.addLocked(path, line)
	out := *bp
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(out, true)
	}
	return out, true
}

// AddLineBreakpoint adds a line breakpoint. Adding a breakpoint that already
// exists returns the existing one and reports no change.
func (m *BreakpointManager) AddLineBreakpoint(path string, line int) Breakpoint {
	m.mu.Lock()

	if bp := m.findLocked(path, line); bp != nil {
		out := *bp
		m.mu.Unlock()
		return out
	}
	out := *m.addLocked(path, line)
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(out, true)
	}
	return out
}

// RemoveBreakpoint removes the breakpoint with the given ID.
func (m *BreakpointManager) RemoveBreakpoint(id int) error {
	m.mu.Lock()

	bp, ok := m.breakpoints[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrBreakpointNotFound, id)
	}
	m.removeLocked(bp)
	out := *bp
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(out, false)
	}
	return nil
}

// SetEnabled enables or disables a breakpoint.
func (m *BreakpointManager) SetEnabled(id int, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bp, ok := m.breakpoints[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrBreakpointNotFound, id)
	}
	bp.Enabled = enabled
	return nil
}

// GetBreakpointsForPath returns the breakpoints in a file ordered by line.
func (m *BreakpointManager) GetBreakpointsForPath(path string) []Breakpoint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Breakpoint, 0, len(m.byPath[path]))
	for _, bp := range m.byPath[path] {
		out = append(out, *bp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

// GetAllBreakpoints returns every breakpoint ordered by ID.
func (m *BreakpointManager) GetAllBreakpoints() []Breakpoint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Breakpoint, 0, len(m.breakpoints))
	for _, bp := range m.breakpoints {
		out = append(out, *bp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HasBreakpointAt checks if there's a breakpoint at the given location.
func (m *BreakpointManager) HasBreakpointAt(path string, line int) bool {
	_, ok := m.GetBreakpointAt(path, line)
	return ok
}

// GetBreakpointAt returns the breakpoint at the given location.
func (m *BreakpointManager) GetBreakpointAt(path string, line int) (Breakpoint, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if bp := m.findLocked(path, line); bp != nil {
		return *bp, true
	}
	return Breakpoint{}, false
}

// ClearForPath removes all breakpoints in a file.
func (m *BreakpointManager) ClearForPath(path string) {
	m.mu.Lock()

	removed := make([]Breakpoint, 0, len(m.byPath[path]))
	for _, bp := range m.byPath[path] {
		delete(m.breakpoints, bp.ID)
		removed = append(removed, *bp)
	}
	delete(m.byPath, path)
	fn := m.onChange
	m.mu.Unlock()

	if fn == nil {
		return
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i].Line < removed[j].Line })
	for _, bp := range removed {
		fn(bp, false)
	}
}

// Count returns the number of breakpoints.
func (m *BreakpointManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.breakpoints)
}

func (m *BreakpointManager) findLocked(path string, line int) *Breakpoint {
	for _, bp := range m.byPath[path] {
		if bp.Line == line {
			return bp
		}
	}
	return nil
}

func (m *BreakpointManager) addLocked(path string, line int) *Breakpoint {
	bp := &Breakpoint{
		ID:      m.allocateID(),
		Path:    path,
		Line:    line,
		Enabled: true,
	}
	m.breakpoints[bp.ID] = bp
	m.byPath[path] = append(m.byPath[path], bp)
	return bp
}

func (m *BreakpointManager) removeLocked(bp *Breakpoint) {
	delete(m.breakpoints, bp.ID)
	m.byPath[bp.Path] = removeBreakpointFromSlice(m.byPath[bp.Path], bp.ID)
	if len(m.byPath[bp.Path]) == 0 {
		delete(m.byPath, bp.Path)
	}
}

func removeBreakpointFromSlice(slice []*Breakpoint, id int) []*Breakpoint {
	for i, bp := range slice {
		if bp.ID == id {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}

type persistedBreakpoints struct {
	Version     int          `json:"version"`
	Breakpoints []Breakpoint `json:"breakpoints"`
}

// Save writes all breakpoints to the persist path.
func (m *BreakpointManager) Save() error {
	m.mu.RLock()
	path := m.persistPath
	m.mu.RUnlock()

	if path == "" {
		return ErrNoPersistPath
	}

	data := persistedBreakpoints{
		Version:     1,
		Breakpoints: m.GetAllBreakpoints(),
	}

	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal breakpoints: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	m.log.Debug().Str("path", path).Int("count", len(data.Breakpoints)).Msg("breakpoints saved")
	return nil
}

// Load replaces all breakpoints with those in the persist path. A missing
// file is not an error. Entries repeating a path and line, or an ID, that
// was already loaded are skipped.
func (m *BreakpointManager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.persistPath == "" {
		return ErrNoPersistPath
	}

	content, err := os.ReadFile(m.persistPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read file: %w", err)
	}

	var data persistedBreakpoints
	if err := json.Unmarshal(content, &data); err != nil {
		return fmt.Errorf("unmarshal breakpoints: %w", err)
	}

	m.breakpoints = make(map[int]*Breakpoint)
	m.byPath = make(map[string][]*Breakpoint)

	maxID := 0
	skipped := 0
	for i := range data.Breakpoints {
		bp := data.Breakpoints[i]
		if _, dup := m.breakpoints[bp.ID]; dup || m.findLocked(bp.Path, bp.Line) != nil {
			skipped++
			continue
		}
		m.breakpoints[bp.ID] = &bp
		m.byPath[bp.Path] = append(m.byPath[bp.Path], &bp)
		if bp.ID > maxID {
			maxID = bp.ID
		}
	}
	m.nextID = maxID + 1

	if skipped > 0 {
		m.log.Warn().Str("path", m.persistPath).Int("skipped", skipped).Msg("duplicate breakpoints ignored")
	}
	m.log.Debug().Str("path", m.persistPath).Int("count", len(m.breakpoints)).Msg("breakpoints loaded")
	return nil
}
