// Package pointer fans terminal button presses out to listeners such as
// the selector's outside-dismiss handler.
package pointer

import (
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/chooser/pkg/selector"
)

// Hub is a synchronous press broadcaster. Listeners run on the
// publishing goroutine, in subscription order.
type Hub struct {
	mu        sync.RWMutex
	listeners map[ulid.ULID]func(selector.PointerEvent)
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{listeners: make(map[ulid.ULID]func(selector.PointerEvent))}
}

// Subscribe registers fn until the returned subscription is released.
func (h *Hub) Subscribe(fn func(selector.PointerEvent)) selector.Subscription {
	id := ulid.Make()
	h.mu.Lock()
	h.listeners[id] = fn
	h.mu.Unlock()
	return &subscription{hub: h, id: id}
}

// Publish delivers a press at (x, y) to every listener. Listeners may
// unsubscribe themselves or others while being called.
func (h *Hub) Publish(x, y int) {
	h.mu.RLock()
	ids := make([]ulid.ULID, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	// ULIDs sort by creation time.
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })

	ev := selector.PointerEvent{X: x, Y: y}
	for _, id := range ids {
		h.mu.RLock()
		fn, ok := h.listeners[id]
		h.mu.RUnlock()
		if ok {
			fn(ev)
		}
	}
}

// Len returns the number of live listeners.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

type subscription struct {
	hub  *Hub
	id   ulid.ULID
	once sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.listeners, s.id)
		s.hub.mu.Unlock()
	})
}

var _ selector.PointerSource = (*Hub)(nil)
