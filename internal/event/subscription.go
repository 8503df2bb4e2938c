package event

import (
	"sync/atomic"
)

// SubscriptionState represents the state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the subscription is receiving values.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStateCancelled means the subscription has been permanently cancelled.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for handlers that must observe a value before anyone else.
	PriorityCritical Priority = 0

	// PriorityHigh is for input processors.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for logging and diagnostics.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Subscription represents an active subscription to a Signal.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Signal returns the name of the signal this subscription is attached to.
	Signal() string

	// State returns the current subscription state.
	State() SubscriptionState

	// IsActive returns true if the subscription can receive values.
	IsActive() bool

	// Cancel permanently detaches the subscription from its signal.
	// Cancel is idempotent.
	Cancel()
}

// SubscriptionConfig contains configuration for a subscription.
type SubscriptionConfig struct {
	// Priority determines execution order (lower values execute first).
	Priority Priority

	// Once indicates the subscription should auto-cancel after the first value.
	Once bool
}

// DefaultSubscriptionConfig returns a default subscription configuration.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{
		Priority: PriorityNormal,
	}
}

// SubscriptionOption is a function that configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithOnce sets the subscription to auto-cancel after the first value.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

// detacher removes a subscription from its owning signal.
type detacher interface {
	detach(id string)
}

// subscription is the internal implementation of Subscription.
type subscription[T any] struct {
	id      string
	signal  string
	handler func(T)
	config  SubscriptionConfig
	state   atomic.Int32
	owner   detacher
}

// newSubscription creates a new active subscription.
func newSubscription[T any](id, signal string, h func(T), owner detacher, opts ...SubscriptionOption) *subscription[T] {
	config := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&config)
	}

	s := &subscription[T]{
		id:      id,
		signal:  signal,
		handler: h,
		config:  config,
		owner:   owner,
	}
	s.state.Store(int32(SubscriptionStateActive))
	return s
}

// ID returns the subscription ID.
func (s *subscription[T]) ID() string {
	return s.id
}

// Signal returns the signal name.
func (s *subscription[T]) Signal() string {
	return s.signal
}

// State returns the current subscription state.
func (s *subscription[T]) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// IsActive returns true if the subscription is active.
func (s *subscription[T]) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

// Cancel permanently cancels the subscription and detaches it from its signal.
func (s *subscription[T]) Cancel() {
	if !s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStateCancelled)) {
		return
	}
	if s.owner != nil {
		s.owner.detach(s.id)
	}
}

// deliver invokes the handler if the subscription is still active.
func (s *subscription[T]) deliver(v T) bool {
	if !s.IsActive() {
		return false
	}
	if s.config.Once {
		s.Cancel()
	}
	s.handler(v)
	return true
}
