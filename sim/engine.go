package sim

// TimeTeller reports the current virtual time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// EventScheduler registers events to happen in the future.
type EventScheduler interface {
	Schedule(e Event)
}

// An Engine drives a discrete event simulation.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run processes scheduled events until none remain.
	Run() error

	// Pause stops event processing until Continue is called.
	Pause()

	// Continue resumes a paused engine.
	Continue()
}
