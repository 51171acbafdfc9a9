package tracing

import (
	"github.com/sarchlab/linksim/sim"
)

// NamedHookable represent something both have a name and can be hooked
type NamedHookable interface {
	sim.Named
	sim.Hookable
	InvokeHook(sim.HookCtx)
}

// CollectTrace let the tracer to collect events from a domain.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	if domain.Name() == "" {
		panic("domain must have a name")
	}

	domain.AcceptHook(NewHook(tracer))
}

// CollectTraces attaches the tracer to every domain.
func CollectTraces(tracer Tracer, domains ...NamedHookable) {
	for _, d := range domains {
		CollectTrace(d, tracer)
	}
}

// NewHook creates a hook that records every invocation to the tracer.
func NewHook(tracer Tracer) sim.Hook {
	return &traceHook{t: tracer}
}

// A traceHook is a hook that converts invocations to events.
type traceHook struct {
	t Tracer
}

// Func records the event when the hook is triggered.
func (h *traceHook) Func(ctx sim.HookCtx) {
	h.t.Record(EventFromHook(ctx))
}

// Filter returns a tracer that only passes on the events of the given kinds.
// With no kind, every event passes.
func Filter(t Tracer, kinds ...string) Tracer {
	if len(kinds) == 0 {
		return t
	}

	allowed := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}

	return TracerFunc(func(e Event) {
		if allowed[e.Kind] {
			t.Record(e)
		}
	})
}

// Multi returns a tracer that records every event to all the tracers.
func Multi(tracers ...Tracer) Tracer {
	return TracerFunc(func(e Event) {
		for _, t := range tracers {
			t.Record(e)
		}
	})
}
