// Package contention implements CSMA/CD medium access. A Controller senses
// the carrier before each transmission and backs off exponentially on
// collisions.
package contention

import (
	"errors"
	"math"
	"math/rand"

	"github.com/sarchlab/linksim/lan/frame"
	"github.com/sarchlab/linksim/lan/outcome"
	"github.com/sarchlab/linksim/sim"
)

// ErrContentionExhausted is reported by an attempt that kept colliding until
// it ran out of attempts.
var ErrContentionExhausted = errors.New("contention exhausted")

// HookPosCollision marks a sensing step that detected a collision.
var HookPosCollision = &sim.HookPos{Name: "collision"}

// HookPosBackoff marks the start of a backoff period. The detail is the
// backoff duration.
var HookPosBackoff = &sim.HookPos{Name: "backoff"}

// HookPosCommit marks an attempt that found the medium free.
var HookPosCommit = &sim.HookPos{Name: "commit"}

// HookPosExhausted marks an attempt that gave up.
var HookPosExhausted = &sim.HookPos{Name: "contention-exhausted"}

// HookPosAbort marks a sensing step dropped because its attempt was aborted.
var HookPosAbort = &sim.HookPos{Name: "contention-abort"}

// A ForwardFunc hands a committed frame to the medium.
type ForwardFunc func(now sim.VTimeInSec)

type senseEvent struct {
	*sim.EventBase
	attempt *Attempt
}

// A Controller arbitrates the access of senders to a shared medium.
type Controller struct {
	*sim.ComponentBase

	engine      sim.Engine
	source      outcome.Source
	rng         *rand.Rand
	maxAttempts int
	baseUnit    sim.VTimeInSec
}

// MaxAttempts returns the number of collisions an attempt tolerates.
func (c *Controller) MaxAttempts() int {
	return c.maxAttempts
}

// AttemptSend starts contending for the medium. The forward function is
// called exactly once if the attempt commits.
func (c *Controller) AttemptSend(
	sender string,
	f *frame.Frame,
	forward ForwardFunc,
) *Attempt {
	a := &Attempt{
		id:      sim.GetIDGenerator().Generate(),
		sender:  sender,
		frame:   f,
		forward: forward,
		state:   StateIdle,
	}

	c.scheduleSense(c.engine.CurrentTime(), a)

	return a
}

func (c *Controller) scheduleSense(t sim.VTimeInSec, a *Attempt) {
	evt := &senseEvent{
		EventBase: sim.NewEventBase(t, c),
		attempt:   a,
	}
	c.engine.Schedule(evt)
}

// Handle senses the carrier on behalf of an attempt.
func (c *Controller) Handle(e sim.Event) error {
	c.Lock()
	defer c.Unlock()

	switch evt := e.(type) {
	case *senseEvent:
		c.sense(evt)
	default:
		panic("cannot handle event of type " + typeName(e))
	}

	return nil
}

func (c *Controller) sense(evt *senseEvent) {
	now := evt.Time()
	a := evt.attempt

	if !a.transition(StateSensing) {
		c.invokeHook(now, HookPosAbort, a, nil)
		return
	}

	if !c.source.NextCollision() {
		c.commit(now, a)
		return
	}

	a.setState(StateCollision)
	a.collide()
	c.invokeHook(now, HookPosCollision, a, a.Collisions())

	if a.Collisions() >= c.maxAttempts {
		a.exhaust(ErrContentionExhausted)
		c.invokeHook(now, HookPosExhausted, a, nil)

		return
	}

	backoff := c.backoff(a.Collisions())
	a.backoff(backoff)

	if !a.transition(StateBackoff) {
		c.invokeHook(now, HookPosAbort, a, nil)
		return
	}

	c.invokeHook(now, HookPosBackoff, a, backoff)

	c.scheduleSense(now+backoff, a)
}

func (c *Controller) commit(now sim.VTimeInSec, a *Attempt) {
	if !a.transition(StateCommitted) {
		c.invokeHook(now, HookPosAbort, a, nil)
		return
	}

	c.invokeHook(now, HookPosCommit, a, nil)
	a.forward(now)
}

// backoff draws the waiting time after the k-th collision, uniformly from
// [0, 2^(k-1) * baseUnit).
func (c *Controller) backoff(k int) sim.VTimeInSec {
	window := math.Pow(2, float64(k-1)) * float64(c.baseUnit)
	return sim.VTimeInSec(c.rng.Float64() * window)
}

func (c *Controller) invokeHook(
	now sim.VTimeInSec,
	pos *sim.HookPos,
	a *Attempt,
	detail interface{},
) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Now:    now,
		Pos:    pos,
		Item:   a,
		Detail: detail,
	})
}
