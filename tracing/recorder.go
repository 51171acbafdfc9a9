package tracing

import "sync"

// A Recorder keeps the events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends the event.
func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.Seq = len(r.events)
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]Event, len(r.events))
	copy(events, r.events)

	return events
}

// EventsOfKind returns the recorded events of a kind in order.
func (r *Recorder) EventsOfKind(kind string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []Event

	for _, e := range r.events {
		if e.Kind == kind {
			events = append(events, e)
		}
	}

	return events
}

// Count returns the number of events of a kind. An empty actor matches every
// actor.
func (r *Recorder) Count(kind, actor string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0

	for _, e := range r.events {
		if e.Kind == kind && (actor == "" || e.Actor == actor) {
			n++
		}
	}

	return n
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.events)
}

// Reset drops all the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}
