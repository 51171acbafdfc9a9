// Package tracing turns hook invocations into a stream of events and stores
// them.
package tracing

import (
	"fmt"

	"github.com/sarchlab/linksim/sim"
)

// An Event is one observable step of a simulation.
type Event struct {
	// Seq is the position of the event in the stream of the tracer that
	// stored it.
	Seq     int
	Time    sim.VTimeInSec
	Kind    string
	Actor   string
	Payload string
}

func (e Event) String() string {
	return fmt.Sprintf("%.6f %s %s: %s", e.Time, e.Actor, e.Kind, e.Payload)
}

// A Tracer stores events.
type Tracer interface {
	Record(e Event)
}

// TracerFunc lets an ordinary function act as a Tracer.
type TracerFunc func(e Event)

// Record calls f(e).
func (f TracerFunc) Record(e Event) {
	f(e)
}

// EventFromHook builds the event that describes a hook invocation. The kind is
// the name of the hook position and the actor is the name of the domain.
func EventFromHook(ctx sim.HookCtx) Event {
	e := Event{
		Time: ctx.Now,
	}

	if ctx.Pos != nil {
		e.Kind = ctx.Pos.Name
	}

	if named, ok := ctx.Domain.(sim.Named); ok {
		e.Actor = named.Name()
	}

	if ctx.Item != nil {
		e.Payload = fmt.Sprint(ctx.Item)
	}

	if ctx.Detail != nil {
		e.Payload += fmt.Sprintf(" [%v]", ctx.Detail)
	}

	return e
}
