package sim

import (
	"runtime"
	"sync"
)

// A ParallelEngine runs the events of one time on separate goroutines.
// Handlers guard their own state, and same-time events run in no fixed
// order.
type ParallelEngine struct {
	HookableBase
	clock
	pauseGate
	endHandlers

	queue   EventQueue
	workers int
}

// NewParallelEngine creates a ParallelEngine that runs up to GOMAXPROCS
// events at once.
func NewParallelEngine() *ParallelEngine {
	return &ParallelEngine{
		queue:   NewEventQueue(),
		workers: runtime.GOMAXPROCS(0),
	}
}

// Schedule queues evt. Handlers may call it from any goroutine.
func (e *ParallelEngine) Schedule(evt Event) {
	mustNotBeInPast(evt, e.CurrentTime())
	e.queue.Push(evt)
}

// Run handles rounds of same-time events until the queue drains or a handler
// fails. A failing round still completes.
func (e *ParallelEngine) Run() error {
	for e.queue.Len() > 0 {
		err := e.runRound()
		if err != nil {
			return err
		}
	}

	return nil
}

func (e *ParallelEngine) runRound() error {
	e.gate.Lock()
	defer e.gate.Unlock()

	next := e.queue.Peek()
	mustNotBeInPast(next, e.CurrentTime())

	now := next.Time()
	e.advanceTo(now)

	var batch []Event
	for e.queue.Len() > 0 && e.queue.Peek().Time() == now {
		batch = append(batch, e.queue.Pop())
	}

	return e.runBatch(batch)
}

func (e *ParallelEngine) runBatch(batch []Event) error {
	var (
		wg       sync.WaitGroup
		errLock  sync.Mutex
		firstErr error
	)

	slots := make(chan struct{}, e.workers)

	for _, evt := range batch {
		wg.Add(1)
		slots <- struct{}{}

		go func(evt Event) {
			defer func() {
				<-slots
				wg.Done()
			}()

			err := process(e, e.InvokeHook, evt)
			if err != nil {
				errLock.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errLock.Unlock()
			}
		}(evt)
	}

	wg.Wait()

	return firstErr
}

// Finished calls the end handlers with the time of the last round.
func (e *ParallelEngine) Finished() {
	e.notifyEnd(e.CurrentTime())
}
