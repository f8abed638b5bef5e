// Package events implements the router's named event bus. Plugins and
// application code subscribe to lifecycle and transition events; the router
// emits them synchronously as navigations progress.
package events

import (
	"sync"

	"github.com/riogod/router-sub000/pkg/routetree"
)

// Name identifies a router event.
type Name string

// Router lifecycle and transition events.
const (
	RouterStart       Name = "$start"
	RouterStop        Name = "$stop"
	TransitionStart   Name = "$$start"
	TransitionSuccess Name = "$$success"
	TransitionError   Name = "$$error"
	TransitionCancel  Name = "$$cancel"
)

// Payload carries the states and error relevant to an emitted event. Fields
// not applicable to the event are nil.
type Payload struct {
	ToState   *routetree.State
	FromState *routetree.State
	Err       error
}

// Handler receives an emitted event.
type Handler func(p Payload)

// Attachment subscribes a set of handlers to a bus and returns the function
// that detaches them again. Instrumentation (metrics, tracing, transition
// logging) is packaged as attachments.
type Attachment func(b *Bus) (detach func())

// Bus is a synchronous publish/subscribe hub keyed by event name. The zero
// value is not usable; construct with NewBus.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Name]map[int]Handler
}

// NewBus returns an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Name]map[int]Handler)}
}

// Subscribe registers a handler for the named event and returns its
// unsubscribe function. Unsubscribing twice is a no-op.
func (b *Bus) Subscribe(name Name, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[name] == nil {
		b.subs[name] = make(map[int]Handler)
	}
	b.subs[name][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[name], id)
	}
}

// Emit calls every handler subscribed to the named event. The subscriber set
// is snapshotted first, so handlers may subscribe or unsubscribe freely.
func (b *Bus) Emit(name Name, p Payload) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[name]))
	ids := make([]int, 0, len(b.subs[name]))
	for id := range b.subs[name] {
		ids = append(ids, id)
	}
	// Notify in subscription order.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	for _, id := range ids {
		handlers = append(handlers, b.subs[name][id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(p)
	}
}
