package medium

import (
	"sync"

	"github.com/sarchlab/linksim/sim"
)

type traceEntry struct {
	now   sim.VTimeInSec
	actor string
	kind  string
}

type traceHook struct {
	lock    sync.Mutex
	entries []traceEntry
}

func (h *traceHook) Func(ctx sim.HookCtx) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.entries = append(h.entries, traceEntry{
		now:   ctx.Now,
		actor: ctx.Domain.(sim.Named).Name(),
		kind:  ctx.Pos.Name,
	})
}

func (h *traceHook) count(actor, kind string) int {
	h.lock.Lock()
	defer h.lock.Unlock()

	n := 0
	for _, e := range h.entries {
		if e.actor == actor && e.kind == kind {
			n++
		}
	}

	return n
}

func (h *traceHook) kinds() []string {
	h.lock.Lock()
	defer h.lock.Unlock()

	kinds := make([]string, len(h.entries))
	for i, e := range h.entries {
		kinds[i] = e.kind
	}

	return kinds
}

func watch(h *traceHook, nodes ...Node) {
	for _, n := range nodes {
		n.AcceptHook(h)
	}
}

// at runs fn when the engine reaches time t.
func at(engine sim.Engine, t sim.VTimeInSec, fn func()) {
	handler := sim.HandlerFunc(func(sim.Event) error {
		fn()
		return nil
	})
	engine.Schedule(sim.NewEventBase(t, handler))
}
