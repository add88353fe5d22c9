// Package events delivers cart lifecycle events to in-process listeners and
// remote brokers. Every dispatcher here is fire-and-forget: failures are logged,
// never returned to the cart.
package events

import (
	"context"
	"sync"
)

// Wildcard subscribes a listener to every event.
const Wildcard = "*"

// Listener receives an event name and its payload.
type Listener = func(ctx context.Context, event string, payload any)

// Bus is a synchronous in-process dispatcher. Listeners run in registration
// order on the dispatching goroutine.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]Listener)}
}

// Listen registers fn for event, or for every event when event is Wildcard.
func (b *Bus) Listen(event string, fn func(ctx context.Context, event string, payload any)) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[event] = append(b.listeners[event], fn)
}

// Dispatch calls the listeners registered for event, then the wildcard ones.
func (b *Bus) Dispatch(ctx context.Context, event string, payload any) {
	b.mu.RLock()
	targets := make([]Listener, 0, len(b.listeners[event])+len(b.listeners[Wildcard]))
	targets = append(targets, b.listeners[event]...)
	if event != Wildcard {
		targets = append(targets, b.listeners[Wildcard]...)
	}
	b.mu.RUnlock()

	for _, fn := range targets {
		fn(ctx, event, payload)
	}
}

// Dispatcher is anything that accepts events.
type Dispatcher interface {
	Dispatch(ctx context.Context, event string, payload any)
}

// Fanout forwards every event to each dispatcher in order.
type Fanout []Dispatcher

func (f Fanout) Dispatch(ctx context.Context, event string, payload any) {
	for _, d := range f {
		if d != nil {
			d.Dispatch(ctx, event, payload)
		}
	}
}
