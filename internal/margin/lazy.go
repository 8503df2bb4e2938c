package margin

import (
	"sync"
	"sync/atomic"
)

// Lazy defers creating a value until it is first needed.
type Lazy[T any] struct {
	once    sync.Once
	factory func() T
	value   T
	created atomic.Bool
}

// NewLazy returns a handle whose value is produced by factory on first use.
func NewLazy[T any](factory func() T) *Lazy[T] {
	return &Lazy[T]{factory: factory}
}

// Value returns the value, creating it on the first call.
func (l *Lazy[T]) Value() T {
	l.once.Do(func() {
		l.value = l.factory()
		l.factory = nil
		l.created.Store(true)
	})
	return l.value
}

// Created reports whether the value has been created.
func (l *Lazy[T]) Created() bool {
	return l.created.Load()
}
