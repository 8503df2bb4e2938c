package event

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Signal is a named, typed event source.
type Signal[T any] struct {
	name string

	mu   sync.Mutex
	subs []*subscription[T]
}

// NewSignal creates a signal with the given name. The name is used for
// diagnostics only.
func NewSignal[T any](name string) *Signal[T] {
	return &Signal[T]{name: name}
}

// Name returns the signal name.
func (s *Signal[T]) Name() string {
	return s.name
}

// Subscribe registers h to receive every value emitted after this call.
// Subscribe panics if h is nil.
func (s *Signal[T]) Subscribe(h func(T), opts ...SubscriptionOption) Subscription {
	if h == nil {
		panic("event: nil handler for signal " + s.name)
	}

	sub := newSubscription(uuid.NewString(), s.name, h, s, opts...)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Insert after every subscription with a lower or equal priority so
	// equal priorities keep subscription order.
	i := sort.Search(len(s.subs), func(i int) bool {
		return s.subs[i].config.Priority > sub.config.Priority
	})
	s.subs = append(s.subs, nil)
	copy(s.subs[i+1:], s.subs[i:])
	s.subs[i] = sub

	return sub
}

// Emit delivers v to every active subscription and returns the number of
// handlers that ran.
func (s *Signal[T]) Emit(v T) int {
	s.mu.Lock()
	snapshot := make([]*subscription[T], len(s.subs))
	copy(snapshot, s.subs)
	s.mu.Unlock()

	delivered := 0
	for _, sub := range snapshot {
		if sub.deliver(v) {
			delivered++
		}
	}
	return delivered
}

// Len returns the number of attached subscriptions.
func (s *Signal[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Reset cancels every attached subscription.
func (s *Signal[T]) Reset() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		// owner already cleared the slice; only flip the state
		sub.state.Store(int32(SubscriptionStateCancelled))
	}
}

// detach removes the subscription with the given ID.
func (s *Signal[T]) detach(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}
