package sim

import (
	"fmt"
	"log"
	"reflect"
	"sync"
)

// An Engine keeps a discrete event simulation running. Media, contention
// controllers and ARQ sessions schedule their events on it.
type Engine interface {
	Hookable

	// CurrentTime returns the time of the event being handled.
	CurrentTime() VTimeInSec

	// Schedule queues an event. Scheduling before the current time panics.
	Schedule(e Event)

	// Run handles events until none is left. It stops at the first handler
	// error and returns it.
	Run() error

	// Pause blocks Run before the next event until Continue is called.
	Pause()
	Continue()

	// RegisterSimulationEndHandler adds a handler that Finished calls.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished tells every end handler that the run is over.
	Finished()
}

// A SimulationEndHandler is notified with the final time of a run.
type SimulationEndHandler interface {
	Handle(now VTimeInSec)
}

// HookPosBeforeEvent is where an engine reports an event it is about to
// handle.
var HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is where an engine reports a handled event. The Detail
// is the handler error, if any.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// process handles evt between the before and after hooks of domain.
func process(domain Hookable, invoke func(HookCtx), evt Event) error {
	ctx := HookCtx{
		Domain: domain,
		Now:    evt.Time(),
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	invoke(ctx)

	err := evt.Handler().Handle(evt)

	ctx.Pos = HookPosAfterEvent
	if err != nil {
		ctx.Detail = err
	}
	invoke(ctx)

	if err != nil {
		return fmt.Errorf("%s @ %.6f: %w", reflect.TypeOf(evt), evt.Time(), err)
	}

	return nil
}

func mustNotBeInPast(evt Event, now VTimeInSec) {
	if evt.Time() < now {
		log.Panicf("event %s @ %.10f is earlier than now, %.10f",
			reflect.TypeOf(evt), evt.Time(), now)
	}
}

// clock holds the current time of an engine.
type clock struct {
	nowLock sync.RWMutex
	now     VTimeInSec
}

// CurrentTime returns the time of the event being handled.
func (c *clock) CurrentTime() VTimeInSec {
	c.nowLock.RLock()
	defer c.nowLock.RUnlock()

	return c.now
}

func (c *clock) advanceTo(t VTimeInSec) {
	c.nowLock.Lock()
	c.now = t
	c.nowLock.Unlock()
}

// pauseGate is held by the run loop while an event runs and by Pause until
// Continue.
type pauseGate struct {
	gate      sync.Mutex
	stateLock sync.Mutex
	paused    bool
}

// Pause stops the engine before its next event.
func (g *pauseGate) Pause() {
	g.stateLock.Lock()
	defer g.stateLock.Unlock()

	if g.paused {
		return
	}

	g.gate.Lock()
	g.paused = true
}

// Continue lets a paused engine move on.
func (g *pauseGate) Continue() {
	g.stateLock.Lock()
	defer g.stateLock.Unlock()

	if !g.paused {
		return
	}

	g.paused = false
	g.gate.Unlock()
}

// endHandlers keeps the handlers that Finished notifies.
type endHandlers struct {
	handlersLock sync.Mutex
	handlers     []SimulationEndHandler
}

// RegisterSimulationEndHandler adds a handler that Finished calls.
func (l *endHandlers) RegisterSimulationEndHandler(h SimulationEndHandler) {
	l.handlersLock.Lock()
	l.handlers = append(l.handlers, h)
	l.handlersLock.Unlock()
}

func (l *endHandlers) notifyEnd(now VTimeInSec) {
	l.handlersLock.Lock()
	handlers := append([]SimulationEndHandler(nil), l.handlers...)
	l.handlersLock.Unlock()

	for _, h := range handlers {
		h.Handle(now)
	}
}
