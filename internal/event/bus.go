// Package event provides the in-process notification bus used to tell
// river systems that a rail was edited.
package event

import "sync"

// RailChanged is published whenever a named rail's control nodes change.
type RailChanged struct {
	Name string
}

// Bus dispatches RailChanged events to subscribers synchronously, in
// subscription order. Handlers run on the publishing goroutine.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]func(RailChanged)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(RailChanged))}
}

// Subscribe registers a handler and returns a function that removes it.
func (b *Bus) Subscribe(fn func(RailChanged)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers the event to every current subscriber. Handlers are
// invoked outside the bus lock so they may subscribe or unsubscribe.
func (b *Bus) Publish(ev RailChanged) {
	b.mu.Lock()
	handlers := make([]func(RailChanged), 0, len(b.subs))
	for id := 0; id < b.next; id++ {
		if fn, ok := b.subs[id]; ok {
			handlers = append(handlers, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
