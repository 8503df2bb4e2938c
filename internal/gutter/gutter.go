// Package gutter lays out and renders the gutter to the left of a text view.
// The gutter holds the sign column, which doubles as the glyph margin that
// receives breakpoint clicks, followed by right-aligned line numbers and a
// one column separator.
package gutter

import (
	"sync"
)

// Config holds gutter configuration.
type Config struct {
	// ShowLineNumbers enables line number display.
	ShowLineNumbers bool

	// LineNumberWidth is the fixed width for line numbers (0 = auto).
	LineNumberWidth int

	// MinLineNumberWidth is the minimum width for auto-calculated widths.
	MinLineNumberWidth int

	// ShowSigns enables the sign column (breakpoints, errors, etc.).
	ShowSigns bool

	// SignColumnWidth is the width of the sign column.
	SignColumnWidth int
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		ShowLineNumbers:    true,
		LineNumberWidth:    0, // Auto
		MinLineNumberWidth: 3,
		ShowSigns:          true,
		SignColumnWidth:    2,
	}
}

// SignType represents the type of sign to display.
type SignType uint8

const (
	SignNone SignType = iota
	SignError
	SignWarning
	SignBreakpoint
	SignBreakpointDisabled
	SignBookmark
)

// Sign represents a sign to display in the gutter.
type Sign struct {
	Line int
	Type SignType
}

// SignProvider provides signs for the gutter.
type SignProvider interface {
	// SignsForLine returns signs for a zero-based buffer line.
	SignsForLine(line int) []Sign
}

// SignProviderFunc adapts a function to SignProvider.
type SignProviderFunc func(line int) []Sign

// SignsForLine calls f(line).
func (f SignProviderFunc) SignsForLine(line int) []Sign {
	return f(line)
}

// CellStyle describes how to style a gutter cell.
type CellStyle uint8

const (
	StyleNormal CellStyle = iota
	StyleCurrentLine
	StyleDim
	StyleError
	StyleWarning
	StyleInfo
)

// Cell represents a single gutter cell.
type Cell struct {
	Rune  rune
	Style CellStyle
}

// Gutter manages the gutter area rendering.
type Gutter struct {
	mu sync.RWMutex

	config Config

	width       int // Total calculated width
	lineCount   int // Total lines in buffer
	currentLine int // Highlighted line, -1 for none

	signProvider SignProvider
}

// New creates a new gutter with the given configuration.
func New(config Config) *Gutter {
	return &Gutter{
		config:      config,
		width:       calculateWidth(config, 1),
		currentLine: -1,
	}
}

// Width returns the current gutter width.
func (g *Gutter) Width() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.width
}

// Config returns the current configuration.
func (g *Gutter) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig updates the gutter configuration.
func (g *Gutter) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = config
	g.width = calculateWidth(config, g.lineCount)
}

// SetLineCount updates the total line count (affects width calculation).
func (g *Gutter) SetLineCount(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lineCount = count
	g.width = calculateWidth(g.config, count)
}

// SetCurrentLine sets the highlighted line. Pass -1 to clear it.
func (g *Gutter) SetCurrentLine(line int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentLine = line
}

// CurrentLine returns the highlighted line, or -1.
func (g *Gutter) CurrentLine() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.currentLine
}

// SetSignProvider sets the sign provider.
func (g *Gutter) SetSignProvider(sp SignProvider) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.signProvider = sp
}

// LineNumberWidth returns just the line number width (without signs/separator).
func (g *Gutter) LineNumberWidth() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lineNumberWidth()
}

// InSignColumn reports whether screen column x falls in the sign column.
func (g *Gutter) InSignColumn(x int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.config.ShowSigns || g.config.SignColumnWidth <= 0 {
		return false
	}
	return x >= 0 && x < g.config.SignColumnWidth
}

// RenderLine renders the gutter for a single line.
// isVisible indicates if the line exists in the buffer.
func (g *Gutter) RenderLine(line int, isVisible bool) []Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.width == 0 {
		return nil
	}

	cells := make([]Cell, g.width)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Style: StyleNormal}
	}

	col := 0

	if g.config.ShowSigns && g.config.SignColumnWidth > 0 {
		var signCells []Cell
		if isVisible {
			signCells = g.renderSigns(line)
		} else {
			signCells = blank(g.config.SignColumnWidth)
		}
		for i := 0; i < len(signCells) && col < g.width-1; i++ {
			cells[col] = signCells[i]
			col++
		}
	}

	if g.config.ShowLineNumbers && isVisible {
		numCells := g.renderLineNumber(line)
		numWidth := g.lineNumberWidth()

		// Right-align line number
		padding := numWidth - len(numCells)
		for i := 0; i < padding && col < g.width-1; i++ {
			cells[col] = Cell{Rune: ' ', Style: g.styleForLine(line)}
			col++
		}
		for i := 0; i < len(numCells) && col < g.width-1; i++ {
			cells[col] = numCells[i]
			col++
		}
	} else if g.config.ShowLineNumbers {
		// Show ~ for non-existent lines
		numWidth := g.lineNumberWidth()
		for i := 0; i < numWidth-1 && col < g.width-1; i++ {
			cells[col] = Cell{Rune: ' ', Style: StyleDim}
			col++
		}
		if col < g.width-1 {
			cells[col] = Cell{Rune: '~', Style: StyleDim}
		}
	}

	return cells
}

func (g *Gutter) styleForLine(line int) CellStyle {
	if line == g.currentLine {
		return StyleCurrentLine
	}
	return StyleDim
}

func (g *Gutter) renderLineNumber(line int) []Cell {
	style := g.styleForLine(line)
	numStr := FormatNumber(line + 1)
	cells := make([]Cell, len(numStr))
	for i, r := range numStr {
		cells[i] = Cell{Rune: r, Style: style}
	}
	return cells
}

func (g *Gutter) renderSigns(line int) []Cell {
	cells := blank(g.config.SignColumnWidth)

	if g.signProvider == nil {
		return cells
	}

	signs := g.signProvider.SignsForLine(line)
	if len(signs) == 0 {
		return cells
	}

	// Display highest priority sign
	sign := highestPriority(signs)
	r, style := signGlyph(sign.Type)
	cells[0] = Cell{Rune: r, Style: style}

	return cells
}

func (g *Gutter) lineNumberWidth() int {
	if g.config.LineNumberWidth > 0 {
		return g.config.LineNumberWidth
	}
	digits := countDigits(g.lineCount)
	if digits < g.config.MinLineNumberWidth {
		digits = g.config.MinLineNumberWidth
	}
	return digits
}

func blank(n int) []Cell {
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Style: StyleNormal}
	}
	return cells
}

// calculateWidth calculates the total gutter width.
func calculateWidth(config Config, lineCount int) int {
	width := 0

	if config.ShowSigns {
		width += config.SignColumnWidth
	}

	if config.ShowLineNumbers {
		if config.LineNumberWidth > 0 {
			width += config.LineNumberWidth
		} else {
			digits := countDigits(lineCount)
			if digits < config.MinLineNumberWidth {
				digits = config.MinLineNumberWidth
			}
			width += digits
		}
	}

	// Add separator
	if width > 0 {
		width++
	}

	return width
}

// countDigits returns the number of digits needed to display a number.
func countDigits(n int) int {
	if n <= 0 {
		return 1
	}
	digits := 0
	for n > 0 {
		digits++
		n /= 10
	}
	return digits
}

// FormatNumber converts a non-negative number to a string.
func FormatNumber(n int) string {
	if n <= 0 {
		return "0"
	}

	var buf [20]byte
	i := len(buf)

	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[i:])
}

// highestPriority returns the sign with highest priority.
func highestPriority(signs []Sign) Sign {
	if len(signs) == 0 {
		return Sign{Type: SignNone}
	}

	best := signs[0]
	for _, s := range signs[1:] {
		if signPriority(s.Type) > signPriority(best.Type) {
			best = s
		}
	}
	return best
}

// signPriority returns the priority of a sign type (higher = more important).
func signPriority(st SignType) int {
	switch st {
	case SignError:
		return 100
	case SignBreakpoint:
		return 90
	case SignBreakpointDisabled:
		return 85
	case SignWarning:
		return 80
	case SignBookmark:
		return 60
	default:
		return 0
	}
}

// signGlyph returns the glyph and style for a sign type.
func signGlyph(st SignType) (rune, CellStyle) {
	switch st {
	case SignError:
		return 'E', StyleError
	case SignWarning:
		return 'W', StyleWarning
	case SignBreakpoint:
		return '*', StyleError
	case SignBreakpointDisabled:
		return 'o', StyleDim
	case SignBookmark:
		return '#', StyleInfo
	default:
		return ' ', StyleNormal
	}
}
