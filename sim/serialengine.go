package sim

import "sync"

// A SerialEngine runs one event at a time. Events scheduled for the same time
// run in the order they were scheduled, so equal inputs give equal traces.
type SerialEngine struct {
	HookableBase
	clock
	pauseGate
	endHandlers

	queue   EventQueue
	runLock sync.Mutex
}

// NewSerialEngine creates a SerialEngine at time 0.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{queue: NewEventQueue()}
}

// Schedule queues evt.
func (e *SerialEngine) Schedule(evt Event) {
	mustNotBeInPast(evt, e.CurrentTime())
	e.queue.Push(evt)
}

// Run handles events until the queue drains or a handler fails.
func (e *SerialEngine) Run() error {
	e.runLock.Lock()
	defer e.runLock.Unlock()

	for e.queue.Len() > 0 {
		err := e.step()
		if err != nil {
			return err
		}
	}

	return nil
}

func (e *SerialEngine) step() error {
	e.gate.Lock()
	defer e.gate.Unlock()

	evt := e.queue.Pop()
	mustNotBeInPast(evt, e.CurrentTime())
	e.advanceTo(evt.Time())

	return process(e, e.InvokeHook, evt)
}

// Finished calls the end handlers with the time of the last event.
func (e *SerialEngine) Finished() {
	e.notifyEnd(e.CurrentTime())
}
