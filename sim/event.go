package sim

// VTimeInSec is the virtual time of the simulated hardware, in seconds.
type VTimeInSec float64

// An Event is something that will happen in the future.
type Event interface {
	// Time returns the time at which the event should happen.
	Time() VTimeInSec

	// Handler returns the handler that should process the event.
	Handler() Handler

	// IsSecondary tells if the event runs after all the same-time
	// primary events.
	IsSecondary() bool
}

// A Handler defines a domain for events. An event is scheduled by its
// handler and only directly modifies that handler.
type Handler interface {
	Handle(e Event) error
}

// EventBase provides the fields and getters that concrete events embed.
type EventBase struct {
	ID        string
	time      VTimeInSec
	handler   Handler
	secondary bool
}

// NewEventBase creates a new EventBase.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// Time returns the time at which the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler that processes the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary tells if the event is a secondary event.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}
