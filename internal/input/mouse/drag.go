package mouse

// dragTracker tracks the held button between reports.
type dragTracker struct {
	// active indicates a button is held.
	active bool

	// moved indicates the pointer moved since the press.
	moved bool

	// button is the mouse button being held.
	button Button

	// startPos is where the button was pressed.
	startPos Position

	// currentPos is the last reported position.
	currentPos Position
}

func newDragTracker() *dragTracker {
	return &dragTracker{}
}

// start begins tracking a held button.
func (t *dragTracker) start(pos Position, button Button) {
	t.active = true
	t.moved = false
	t.button = button
	t.startPos = pos
	t.currentPos = pos
}

// update records a new position and reports whether it differs from the last.
func (t *dragTracker) update(pos Position) bool {
	if pos.Equal(t.currentPos) {
		return false
	}
	t.currentPos = pos
	if t.active {
		t.moved = true
	}
	return true
}

// end stops tracking the held button. The last position is kept so later
// motion is still detected.
func (t *dragTracker) end() {
	t.active = false
	t.moved = false
	t.button = ButtonNone
	t.startPos = Position{}
}

// DragState represents the current state of a held button.
type DragState struct {
	// Active indicates a button is held.
	Active bool

	// Moved indicates the pointer moved while the button was held.
	Moved bool

	// Button is the mouse button being held.
	Button Button

	// StartPos is where the button was pressed.
	StartPos Position

	// CurrentPos is the last reported position.
	CurrentPos Position
}

func (t *dragTracker) state() DragState {
	return DragState{
		Active:     t.active,
		Moved:      t.moved,
		Button:     t.button,
		StartPos:   t.startPos,
		CurrentPos: t.currentPos,
	}
}
