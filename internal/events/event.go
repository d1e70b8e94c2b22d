// Package events provides a small type-safe pub/sub primitive used to push
// engine notifications to the presentation layer. Delivery is fire-and-forget:
// late subscribers never see past events.
package events

import "sync"

// Event fans a value out to all registered listeners.
// T is the type of the argument passed to callback functions.
type Event[T any] struct {
	mu        sync.RWMutex
	listeners map[uint64]func(T)
	nextID    uint64
}

// New creates an Event with no listeners.
func New[T any]() *Event[T] {
	return &Event[T]{listeners: make(map[uint64]func(T))}
}

// Listen registers a callback invoked on every subsequent Notify.
// The returned function deregisters the listener.
func (e *Event[T]) Listen(callback func(T)) func() {
	if callback == nil {
		panic("events: nil callback")
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = callback
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// Notify invokes every registered listener with value. Callbacks run outside
// the lock so a listener may deregister itself or register others.
func (e *Event[T]) Notify(value T) {
	e.mu.RLock()
	callbacks := make([]func(T), 0, len(e.listeners))
	for _, cb := range e.listeners {
		callbacks = append(callbacks, cb)
	}
	e.mu.RUnlock()

	for _, cb := range callbacks {
		cb(value)
	}
}

// ListenerCount returns the number of registered listeners.
func (e *Event[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}
