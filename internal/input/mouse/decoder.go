package mouse

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Decoder turns button-state reports into press, release, drag and move
// events.
type Decoder struct {
	mu   sync.Mutex
	drag *dragTracker
}

// NewDecoder creates a decoder with no button held.
func NewDecoder() *Decoder {
	return &Decoder{drag: newDragTracker()}
}

// DecodeTcell decodes a tcell mouse report.
func (d *Decoder) DecodeTcell(ev *tcell.EventMouse) []Event {
	x, y := ev.Position()
	return d.Decode(Position{X: x, Y: y}, ev.Buttons(), ev.Modifiers(), ev.When())
}

// Decode decodes one report of the buttons held at pos.
//
// Only one non-wheel button is tracked at a time. If the held button changes
// between reports the old one is released before the new one is pressed.
func (d *Decoder) Decode(pos Position, buttons tcell.ButtonMask, mods tcell.ModMask, when time.Time) []Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	mod := convertMod(mods)
	mk := func(b Button, a Action) Event {
		return Event{Position: pos, Button: b, Modifiers: mod, Action: a, Timestamp: when}
	}

	var out []Event

	if wheel := convertWheel(buttons); wheel != ButtonNone {
		d.drag.update(pos)
		return append(out, mk(wheel, ActionPress))
	}

	held := convertButton(buttons)
	prev := d.drag.button
	moved := d.drag.update(pos)

	switch {
	case d.drag.active && held == prev:
		if moved {
			out = append(out, mk(prev, ActionDrag))
		}
	case d.drag.active:
		out = append(out, mk(prev, ActionRelease))
		d.drag.end()
		if held != ButtonNone {
			d.drag.start(pos, held)
			out = append(out, mk(held, ActionPress))
		}
	case held != ButtonNone:
		d.drag.start(pos, held)
		out = append(out, mk(held, ActionPress))
	case moved:
		out = append(out, mk(ButtonNone, ActionMove))
	}

	return out
}

// Reset forgets any held button.
func (d *Decoder) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drag.end()
}

// State returns the current held-button state.
func (d *Decoder) State() DragState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drag.state()
}

// convertButton returns the highest priority non-wheel button in b.
func convertButton(b tcell.ButtonMask) Button {
	switch {
	case b&tcell.ButtonPrimary != 0:
		return ButtonLeft
	case b&tcell.ButtonMiddle != 0:
		return ButtonMiddle
	case b&tcell.ButtonSecondary != 0:
		return ButtonRight
	default:
		return ButtonNone
	}
}

func convertWheel(b tcell.ButtonMask) Button {
	switch {
	case b&tcell.WheelUp != 0:
		return ButtonScrollUp
	case b&tcell.WheelDown != 0:
		return ButtonScrollDown
	case b&tcell.WheelLeft != 0:
		return ButtonScrollLeft
	case b&tcell.WheelRight != 0:
		return ButtonScrollRight
	default:
		return ButtonNone
	}
}

func convertMod(m tcell.ModMask) Modifier {
	var result Modifier
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}
