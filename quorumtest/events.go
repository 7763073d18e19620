package quorumtest

import (
	"sync"

	"github.com/iov-one/quorum"
)

// EventRecorder is an EventSink that remembers every event it received.
type EventRecorder struct {
	mu     sync.Mutex
	events []quorum.Event
}

var _ quorum.EventSink = (*EventRecorder)(nil)

// Emit records the event.
func (r *EventRecorder) Emit(e quorum.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of all recorded events in emission order.
func (r *EventRecorder) Events() []quorum.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]quorum.Event, len(r.events))
	copy(res, r.events)
	return res
}

// Kinds returns the kind of every recorded event in emission order.
func (r *EventRecorder) Kinds() []string {
	events := r.Events()
	res := make([]string, len(events))
	for i, e := range events {
		res[i] = e.Kind()
	}
	return res
}

// Reset forgets all recorded events.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
