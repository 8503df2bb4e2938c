// Package margin implements the glyph margin click gesture that toggles
// breakpoints.
//
// The glyph margin is the narrow column left of a text view's content. A
// Margin owns the pointer signals for that column; the host raises them with
// the visual line under the pointer. A Tracker listens to those signals and
// to the view's layout and close signals and decides when a press and release
// form a click.
//
// # Gesture
//
// A click is a press and a release on the same visual line, with no pointer
// enter, pointer leave or layout pass in between:
//
//	EMPTY    --down(line)-------------------> ARMED(line)
//	ARMED(t) --up(line) where t == line-----> EMPTY, toggle(line.Start)
//	ARMED(t) --up(other)--------------------> EMPTY
//	ARMED(t) --enter | leave | layout-------> EMPTY
//
// The tracker remembers the pressed line through a weak pointer to its
// identity. If the view recycles the line and the identity is collected
// before the release, the release is treated as landing on another line.
//
// # Lifecycle
//
// A Tracker subscribes at construction and cancels every subscription when
// the view closes (or Close is called), so a long-lived view never keeps a
// closed tracker, or the toggler it references, reachable.
//
// # Usage
//
//	provider, _ := margin.NewProvider(margin.NewLazy(func() margin.Toggler {
//	    return breakpoints
//	}))
//	m := margin.NewMargin(textView)
//	tracker, err := provider.Associate(m)
//	if errors.Is(err, margin.ErrNotDebuggable) {
//	    // plain view, no breakpoint gesture
//	}
//
//	// from the host's input loop
//	handled := m.Up(lineUnderPointer)
package margin
