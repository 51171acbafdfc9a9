package contention

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sarchlab/linksim/lan/frame"
	"github.com/sarchlab/linksim/sim"
)

// State is the stage an attempt is in.
type State int

// The states of an attempt.
const (
	StateIdle State = iota
	StateSensing
	StateCollision
	StateBackoff
	StateCommitted
	StateExhausted
	StateAborted
)

var stateNames = [...]string{
	"idle",
	"sensing",
	"collision",
	"backoff",
	"committed",
	"exhausted",
	"aborted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}

	return stateNames[s]
}

// An Attempt tracks one frame contending for the medium.
type Attempt struct {
	lock sync.RWMutex

	id         string
	sender     string
	frame      *frame.Frame
	forward    ForwardFunc
	state      State
	collisions int
	backoffs   []sim.VTimeInSec
	err        error
}

// ID returns the ID of the attempt.
func (a *Attempt) ID() string {
	return a.id
}

// Sender returns the name of the sending device.
func (a *Attempt) Sender() string {
	return a.sender
}

// Frame returns the frame being sent.
func (a *Attempt) Frame() *frame.Frame {
	return a.frame
}

// State returns the current state.
func (a *Attempt) State() State {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.state
}

// Collisions returns the number of collisions detected so far.
func (a *Attempt) Collisions() int {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.collisions
}

// Backoffs returns the backoff durations drawn so far.
func (a *Attempt) Backoffs() []sim.VTimeInSec {
	a.lock.RLock()
	defer a.lock.RUnlock()

	b := make([]sim.VTimeInSec, len(a.backoffs))
	copy(b, a.backoffs)

	return b
}

// Done tells if the attempt reached a final state.
func (a *Attempt) Done() bool {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.final()
}

// Delivered tells if the frame was handed to the medium.
func (a *Attempt) Delivered() bool {
	return a.State() == StateCommitted
}

// Err returns ErrContentionExhausted if the attempt gave up.
func (a *Attempt) Err() error {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.err
}

// Abort stops an attempt that has not reached a final state. The frame of an
// aborted attempt is never handed to the medium.
func (a *Attempt) Abort() {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.final() {
		return
	}

	a.state = StateAborted
}

func (a *Attempt) String() string {
	return fmt.Sprintf("%s: %s", a.sender, a.frame.Content())
}

func (a *Attempt) final() bool {
	return a.state == StateCommitted ||
		a.state == StateExhausted ||
		a.state == StateAborted
}

// transition moves the attempt to s unless it was aborted.
func (a *Attempt) transition(s State) bool {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.state == StateAborted {
		return false
	}

	a.state = s

	return true
}

func (a *Attempt) setState(s State) {
	a.transition(s)
}

func (a *Attempt) collide() {
	a.lock.Lock()
	a.collisions++
	a.lock.Unlock()
}

func (a *Attempt) backoff(t sim.VTimeInSec) {
	a.lock.Lock()
	a.backoffs = append(a.backoffs, t)
	a.lock.Unlock()
}

func (a *Attempt) exhaust(err error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.state == StateAborted {
		return
	}

	a.state = StateExhausted
	a.err = err
}

func typeName(v interface{}) string {
	return reflect.TypeOf(v).String()
}
