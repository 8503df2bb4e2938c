// Package event provides typed, synchronous signals for Glyphclick.
//
// A Signal is a named event source owned by a long-lived host object (a text
// view, a glyph margin). Short-lived components subscribe to it and must
// cancel their subscriptions when they are torn down, otherwise the signal
// keeps them reachable for the lifetime of the host.
//
// # Delivery
//
// Emit runs every active handler on the caller's goroutine, in priority order
// (lower values first), and returns once all handlers have run. Handlers may
// cancel their own or other subscriptions while an emission is in flight;
// a subscription cancelled mid-emission receives no further values.
//
// # Usage
//
//	closed := event.NewSignal[struct{}]("view.closed")
//	sub := closed.Subscribe(func(struct{}) {
//	    cleanup()
//	})
//	defer sub.Cancel()
//
//	closed.Emit(struct{}{})
//
// # Thread Safety
//
// Signal and Subscription are safe for concurrent use. Handlers are invoked
// without any signal lock held.
package event
