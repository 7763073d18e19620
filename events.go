package quorum

// Event is a notification published after a state transition was applied.
// Kind is a short, stable name that can be used for routing and logging.
type Event interface {
	Kind() string
}

// EventSink receives events in the order they were produced by a single
// operation. Emit must not fail, delivery is fire-and-forget.
type EventSink interface {
	Emit(Event)
}

// EventSinkFunc allows to use a function as an EventSink.
type EventSinkFunc func(Event)

// Emit calls the wrapped function.
func (fn EventSinkFunc) Emit(e Event) {
	fn(e)
}

// NopSink drops every event.
type NopSink struct{}

var _ EventSink = NopSink{}

// Emit does nothing.
func (NopSink) Emit(Event) {}

// EventBuffer collects events until they are flushed to another sink. Use it
// to hold back notifications of an operation that can still be rolled back.
type EventBuffer struct {
	events []Event
}

var _ EventSink = (*EventBuffer)(nil)

// Emit appends the event to the buffer.
func (b *EventBuffer) Emit(e Event) {
	b.events = append(b.events, e)
}

// Events returns all buffered events.
func (b *EventBuffer) Events() []Event {
	return b.events
}

// FlushTo passes all buffered events to given sink and empties the buffer.
func (b *EventBuffer) FlushTo(sink EventSink) {
	for _, e := range b.events {
		sink.Emit(e)
	}
	b.events = nil
}

// Reset drops all buffered events.
func (b *EventBuffer) Reset() {
	b.events = nil
}
