package medium

import (
	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/lan/frame"
	"github.com/sarchlab/linksim/sim"
)

// A Hub repeats every frame it receives to all its other connections.
type Hub struct {
	mediumBase
}

// Kind returns KindHub.
func (h *Hub) Kind() Kind {
	return KindHub
}

// Handle repeats a delivered frame.
func (h *Hub) Handle(e sim.Event) error {
	h.Lock()
	defer h.Unlock()

	switch evt := e.(type) {
	case *deliveryEvent:
		h.broadcast(evt.Time(), evt.delivery)
	default:
		panicUnknownEvent(h, e)
	}

	return nil
}

// broadcast sends the frame to every connection except the ones leading back
// to the origin or to the node that handed the frame over.
func (h *Hub) broadcast(now sim.VTimeInSec, d Delivery) {
	if len(h.conns) == 0 {
		invokeHook(h, now, HookPosHubIdle, d, nil)
		return
	}

	for _, c := range h.conns {
		if c.device == d.Origin || c.device == d.From {
			continue
		}

		h.deliver(now, c, d, HookPosBroadcast)
	}
}

func (h *Hub) transmit(
	c *Connection,
	sender Node,
	f *frame.Frame,
	_ bool,
) *contention.Attempt {
	d := Delivery{
		Origin: sender,
		From:   sender,
		Via:    c,
		Frame:  f,
	}

	if !mediumHandlesFrom(c, sender) {
		h.handOver(c, sender, d)
		return nil
	}

	h.accept(h.eng.CurrentTime(), d)

	return nil
}
