package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/glyphclick/internal/gutter"
)

const tabWidth = 4

var (
	styleText   = tcell.StyleDefault
	styleStatus = tcell.StyleDefault.Reverse(true)
)

// gutterStyle converts a gutter cell style to a tcell style.
func gutterStyle(s gutter.CellStyle) tcell.Style {
	switch s {
	case gutter.StyleCurrentLine:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	case gutter.StyleDim:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case gutter.StyleError:
		return tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	case gutter.StyleWarning:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case gutter.StyleInfo:
		return tcell.StyleDefault.Foreground(tcell.ColorAqua)
	default:
		return tcell.StyleDefault
	}
}

// Draw renders the gutter, the visible text and the status line.
func (a *App) Draw() {
	if a.screen == nil {
		return
	}
	s := a.screen
	s.Clear()

	width, height := s.Size()
	rows := a.view.Height()
	top := a.view.Top()
	gw := a.gutter.Width()

	for row := 0; row < rows && row < height; row++ {
		line, ok := a.view.LineAtRow(row)

		var cells []gutter.Cell
		if ok {
			cells = a.gutter.RenderLine(line.Number, true)
		} else {
			cells = a.gutter.RenderLine(top+row, false)
		}
		for x, c := range cells {
			if x >= width {
				break
			}
			s.SetContent(x, row, c.Rune, nil, gutterStyle(c.Style))
		}

		if ok {
			drawText(s, gw, row, width, line.Text, styleText)
		}
	}

	if height > 0 {
		drawStatus(s, height-1, width, a.status())
	}
	s.Show()
}

func (a *App) status() string {
	name := a.document.Title()
	count := len(a.breakpoints.GetBreakpointsForPath(a.path))
	hint := a.notice
	if hint == "" {
		hint = "click the margin to toggle, q to quit"
	}
	return fmt.Sprintf(" %s | %d/%d | %d breakpoints | %s",
		name, a.view.Top()+1, a.buffer.LineCount(), count, hint)
}

// drawText draws s starting at column x0, expanding tabs and clipping at
// width.
func drawText(scr tcell.Screen, x0, y, width int, s string, style tcell.Style) {
	x := x0
	for _, r := range s {
		if x >= width {
			return
		}
		if r == '\t' {
			next := x0 + ((x-x0)/tabWidth+1)*tabWidth
			for ; x < next && x < width; x++ {
				scr.SetContent(x, y, ' ', nil, style)
			}
			continue
		}
		scr.SetContent(x, y, r, nil, style)
		x++
	}
}

func drawStatus(scr tcell.Screen, y, width int, msg string) {
	for x := 0; x < width; x++ {
		scr.SetContent(x, y, ' ', nil, styleStatus)
	}
	drawText(scr, 0, y, width, msg, styleStatus)
}
