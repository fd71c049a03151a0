package sim

import (
	"log"
	"reflect"
	"sync"
)

// A SerialEngine runs events one at a time in timestamp order. Primary
// events win time ties against secondary events, so same-cycle component
// updates always complete before message delivery.
type SerialEngine struct {
	HookableBase

	nowLock sync.RWMutex
	now     VTimeInSec

	primary   EventQueue
	secondary EventQueue

	runLock sync.Mutex

	pauseLock  sync.Mutex
	pausedLock sync.Mutex
	paused     bool
}

// NewSerialEngine creates a SerialEngine.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		primary:   NewEventQueue(),
		secondary: NewEventQueue(),
	}
}

// Schedule registers an event to happen in the future.
func (e *SerialEngine) Schedule(evt Event) {
	if evt.Time() < e.CurrentTime() {
		log.Panic("scheduling an event earlier than current time")
	}

	if evt.IsSecondary() {
		e.secondary.Push(evt)
		return
	}

	e.primary.Push(evt)
}

// Run processes all the scheduled events.
func (e *SerialEngine) Run() error {
	e.runLock.Lock()
	defer e.runLock.Unlock()

	for {
		e.pauseLock.Lock()

		evt, ok := e.popEarliest()
		if !ok {
			e.pauseLock.Unlock()
			return nil
		}

		e.runEvent(evt)
		e.pauseLock.Unlock()
	}
}

// popEarliest takes the earliest pending event, preferring the primary
// queue on a time tie.
func (e *SerialEngine) popEarliest() (Event, bool) {
	switch {
	case e.primary.Len() == 0 && e.secondary.Len() == 0:
		return nil, false
	case e.primary.Len() == 0:
		return e.secondary.Pop(), true
	case e.secondary.Len() == 0:
		return e.primary.Pop(), true
	}

	if e.primary.Peek().Time() <= e.secondary.Peek().Time() {
		return e.primary.Pop(), true
	}

	return e.secondary.Pop(), true
}

func (e *SerialEngine) runEvent(evt Event) {
	now := e.CurrentTime()
	if evt.Time() < now {
		log.Panicf(
			"cannot run event in the past, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), now,
		)
	}

	e.advanceTo(evt.Time())

	ctx := HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(ctx)

	_ = evt.Handler().Handle(evt)

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)
}

func (e *SerialEngine) advanceTo(t VTimeInSec) {
	e.nowLock.Lock()
	e.now = t
	e.nowLock.Unlock()
}

// CurrentTime returns the time of the event being processed.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	e.nowLock.RLock()
	defer e.nowLock.RUnlock()

	return e.now
}

// Pause prevents the engine from processing more events until Continue
// is called. It blocks until the event in flight completes.
func (e *SerialEngine) Pause() {
	e.pausedLock.Lock()
	defer e.pausedLock.Unlock()

	if e.paused {
		return
	}

	e.pauseLock.Lock()
	e.paused = true
}

// Continue resumes a paused engine.
func (e *SerialEngine) Continue() {
	e.pausedLock.Lock()
	defer e.pausedLock.Unlock()

	if !e.paused {
		return
	}

	e.pauseLock.Unlock()
	e.paused = false
}
