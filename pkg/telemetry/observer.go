package telemetry

import (
	"time"

	"github.com/odvcencio/chooser/pkg/selector"
)

// HubObserver republishes selector activity on a Hub.
type HubObserver struct {
	Hub *Hub
}

func (o HubObserver) Ranked(visible int, elapsed time.Duration) {
	o.Hub.Publish(Event{Type: EventSelectorRanked, Data: map[string]any{
		"visible":    visible,
		"elapsed_us": elapsed.Microseconds(),
	}})
}

func (o HubObserver) Committed(kind selector.CommitKind) {
	o.Hub.Publish(Event{Type: EventSelectorCommitted, Data: map[string]any{"kind": string(kind)}})
}

func (o HubObserver) Closed(reason selector.CloseReason) {
	o.Hub.Publish(Event{Type: EventSelectorClosed, Data: map[string]any{"reason": string(reason)}})
}

type fanout []selector.Observer

// Fanout returns an observer that forwards to every non-nil observer.
func Fanout(observers ...selector.Observer) selector.Observer {
	var out fanout
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (f fanout) Ranked(visible int, elapsed time.Duration) {
	for _, o := range f {
		o.Ranked(visible, elapsed)
	}
}

func (f fanout) Committed(kind selector.CommitKind) {
	for _, o := range f {
		o.Committed(kind)
	}
}

func (f fanout) Closed(reason selector.CloseReason) {
	for _, o := range f {
		o.Closed(reason)
	}
}
