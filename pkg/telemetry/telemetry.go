// Package telemetry exports selector and directory activity: a fan-out
// event hub, Prometheus metrics and OpenTelemetry tracing.
package telemetry

import (
	"sync"
	"time"
)

// EventType identifies the kind of telemetry event.
type EventType string

const (
	EventSelectorRanked    EventType = "selector.ranked"
	EventSelectorCommitted EventType = "selector.committed"
	EventSelectorClosed    EventType = "selector.closed"
	EventDirectoryBrowsed  EventType = "directory.browsed"
	EventDirectoryFailed   EventType = "directory.failed"
	EventDirectoryChanged  EventType = "directory.changed"
)

// Event is one piece of activity that UIs and API clients can consume.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	SessionID string         `json:"sessionId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// DefaultSubscriberBuffer is the channel size handed to each subscriber.
const DefaultSubscriberBuffer = 64

// Hub fans events out to any number of subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	closed      bool
	sessionID   string
}

// NewHub constructs a hub that stamps sessionID on unstamped events.
func NewHub(sessionID string) *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{}), sessionID: sessionID}
}

// Publish notifies all subscribers. Never blocks; a subscriber that
// cannot keep up misses the event.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.SessionID == "" {
		event.SessionID = h.sessionID
	}
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns a channel of future events and its cleanup func.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		empty := make(chan Event)
		close(empty)
		return empty, func() {}
	}
	ch := make(chan Event, DefaultSubscriberBuffer)
	h.subscribers[ch] = struct{}{}
	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// Close unsubscribes everyone and stops future publication.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
}
