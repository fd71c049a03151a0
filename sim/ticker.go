package sim

import "sync"

// TickEvent is the event that drives a component to update its state.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a new TickEvent.
func MakeTickEvent(handler Handler, t VTimeInSec) TickEvent {
	return TickEvent{EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}}
}

// A Ticker updates its state with ticks.
type Ticker interface {
	Tick() bool
}

// TickScheduler schedules tick events on the tick grid of one clock
// domain. It never schedules two ticks for the same cycle.
type TickScheduler struct {
	lock      sync.Mutex
	handler   Handler
	secondary bool

	Freq   Freq
	Engine Engine

	nextTickTime VTimeInSec
}

func newTickScheduler(
	handler Handler,
	engine Engine,
	freq Freq,
	secondary bool,
) *TickScheduler {
	return &TickScheduler{
		handler:   handler,
		Engine:    engine,
		Freq:      freq,
		secondary: secondary,

		// Guarantees the first tick is scheduled.
		nextTickTime: -1,
	}
}

// NewTickScheduler creates a scheduler for tick events.
func NewTickScheduler(handler Handler, engine Engine, freq Freq) *TickScheduler {
	return newTickScheduler(handler, engine, freq, false)
}

// NewSecondaryTickScheduler creates a scheduler whose tick events run
// after all the same-time primary events.
func NewSecondaryTickScheduler(
	handler Handler,
	engine Engine,
	freq Freq,
) *TickScheduler {
	return newTickScheduler(handler, engine, freq, true)
}

// TickNow schedules a tick in the current cycle.
func (t *TickScheduler) TickNow() {
	t.scheduleTickAt(t.Freq.ThisTick(t.CurrentTime()))
}

// TickLater schedules a tick in the cycle after the current time.
func (t *TickScheduler) TickLater() {
	t.scheduleTickAt(t.Freq.NextTick(t.CurrentTime()))
}

func (t *TickScheduler) scheduleTickAt(time VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.nextTickTime >= time {
		return
	}

	t.nextTickTime = time

	tick := MakeTickEvent(t.handler, time)
	tick.secondary = t.secondary

	t.Engine.Schedule(tick)
}

// CurrentTime returns the time of the engine that drives the scheduler.
func (t *TickScheduler) CurrentTime() VTimeInSec {
	return t.Engine.CurrentTime()
}

// TickingComponent is a component that updates its state cycle by
// cycle. A concrete component only needs to provide the Tick function;
// ticking continues as long as Tick reports progress.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	updater Ticker
}

// NotifyPortFree makes the TickingComponent tick again.
func (c *TickingComponent) NotifyPortFree(_ Port) {
	c.TickLater()
}

// NotifyRecv makes the TickingComponent tick again.
func (c *TickingComponent) NotifyRecv(_ Port) {
	c.TickLater()
}

// Handle runs the tick function and reschedules while progress is made.
func (c *TickingComponent) Handle(_ Event) error {
	if c.updater.Tick() {
		c.TickLater()
	}

	return nil
}

// NewTickingComponent creates a new ticking component.
func NewTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	updater Ticker,
) *TickingComponent {
	tc := new(TickingComponent)
	tc.ComponentBase = NewComponentBase(name)
	tc.TickScheduler = NewTickScheduler(tc, engine, freq)
	tc.updater = updater

	return tc
}

// NewSecondaryTickingComponent creates a ticking component that ticks
// with secondary events.
func NewSecondaryTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	updater Ticker,
) *TickingComponent {
	tc := new(TickingComponent)
	tc.ComponentBase = NewComponentBase(name)
	tc.TickScheduler = NewSecondaryTickScheduler(tc, engine, freq)
	tc.updater = updater

	return tc
}
