package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted during tick N are
// delivered in tick N+1, after SwapBuffers. Emit may be called from the UI
// goroutine; delivery happens on the logic goroutine.
type Bus struct {
	mu       sync.Mutex // guards back and handler registration
	front    []queued
	back     []queued
	handlers map[reflect.Type][]func(any)
}

type queued struct {
	typ reflect.Type
	ev  any
}

func NewBus() *Bus {
	return &Bus{
		front:    make([]queued, 0, 16),
		back:     make([]queued, 0, 16),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event into the back buffer. Events keep their emit order
// across types.
func Emit[T any](b *Bus, event T) {
	b.mu.Lock()
	b.back = append(b.back, queued{typ: typeOf[T](), ev: event})
	b.mu.Unlock()
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeOf[T]()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// SwapBuffers makes the events emitted since the last swap deliverable.
func (b *Bus) SwapBuffers() {
	b.mu.Lock()
	b.front, b.back = b.back, b.front[:0]
	b.mu.Unlock()
}

// Pending returns the number of events waiting for the next swap.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.back)
}

// DispatchAll delivers the front buffer in emit order and empties it.
func (b *Bus) DispatchAll() int {
	b.mu.Lock()
	events := b.front
	b.front = nil
	handlers := b.handlers
	b.mu.Unlock()

	for _, q := range events {
		for _, h := range handlers[q.typ] {
			h(q.ev)
		}
	}
	b.mu.Lock()
	if b.front == nil {
		b.front = events[:0]
	}
	b.mu.Unlock()
	return len(events)
}
