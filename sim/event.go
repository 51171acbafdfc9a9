package sim

// VTimeInSec is a point on the virtual clock, in seconds.
type VTimeInSec float64

// An Event is a step that a Handler takes at a virtual time.
type Event interface {
	Time() VTimeInSec
	Handler() Handler
}

// EventBase carries what every event needs. Embed it to add a payload.
type EventBase struct {
	ID      string
	time    VTimeInSec
	handler Handler
}

// NewEventBase creates an EventBase for handler at time t.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// Time returns when the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler that takes the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// A Handler owns the state that its events change. Nothing but the handler
// of an event touches that state.
type Handler interface {
	Handle(e Event) error
}

// HandlerFunc lets an ordinary function act as a Handler.
type HandlerFunc func(e Event) error

// Handle calls f(e).
func (f HandlerFunc) Handle(e Event) error {
	return f(e)
}
