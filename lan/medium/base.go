package medium

import (
	"fmt"

	"github.com/sarchlab/linksim/sim"
)

// mediumBase keeps the connection list of a medium and schedules deliveries
// on behalf of it.
type mediumBase struct {
	*sim.ComponentBase

	self     Medium
	eng      sim.Engine
	hopLimit int
	conns    []*Connection
}

func (m *mediumBase) engine() sim.Engine {
	return m.eng
}

func (m *mediumBase) HopLimit() int {
	return m.hopLimit
}

func (m *mediumBase) Connect(c *Connection) {
	m.Lock()
	defer m.Unlock()

	if c.medium != m.self {
		panic(fmt.Sprintf("connection %s belongs to %s, not %s",
			c.name, c.medium.Name(), m.Name()))
	}

	if c.attached.Load() {
		panic(fmt.Sprintf("connection %s is already connected", c.name))
	}

	for _, existing := range m.conns {
		if existing.name == c.name {
			panic(fmt.Sprintf("duplicated connection name %s", c.name))
		}
	}

	c.attached.Store(true)
	m.conns = append(m.conns, c)
}

func (m *mediumBase) Disconnect(c *Connection) {
	m.Lock()
	defer m.Unlock()

	for i, existing := range m.conns {
		if existing == c {
			m.conns = append(m.conns[:i], m.conns[i+1:]...)
			c.detached.Store(true)

			return
		}
	}

	panic(fmt.Sprintf("connection %s is not connected to %s",
		c.name, m.Name()))
}

func (m *mediumBase) Connections() []*Connection {
	m.Lock()
	defer m.Unlock()

	conns := make([]*Connection, len(m.conns))
	copy(conns, m.conns)

	return conns
}

// accept schedules the arrival of a frame at the medium itself.
func (m *mediumBase) accept(now sim.VTimeInSec, d Delivery) {
	d.Hops++
	if m.overHopLimit(now, d) {
		return
	}

	m.eng.Schedule(newDeliveryEvent(now+d.Via.latency, m.self, d))
}

// deliver schedules the arrival of a frame at the device of c.
func (m *mediumBase) deliver(
	now sim.VTimeInSec,
	c *Connection,
	d Delivery,
	pos *sim.HookPos,
) {
	d.From = m.self
	d.Via = c
	d.Hops++

	if m.overHopLimit(now, d) {
		return
	}

	invokeHook(m.self, now, pos, d, nil)
	m.eng.Schedule(newDeliveryEvent(now+c.latency, c.device, d))
}

// handOver delivers a frame that a medium sends on a connection whose
// device is not the medium itself.
func (m *mediumBase) handOver(c *Connection, sender Node, d Delivery) {
	now := m.eng.CurrentTime()

	d.From = sender
	d.Via = c
	d.Hops++

	if m.overHopLimit(now, d) {
		return
	}

	m.eng.Schedule(newDeliveryEvent(now+c.latency, c.device, d))
}

func (m *mediumBase) overHopLimit(now sim.VTimeInSec, d Delivery) bool {
	if d.Hops <= m.hopLimit {
		return false
	}

	invokeHook(m.self, now, HookPosHopLimitDrop, d, d.Hops)

	return true
}

// mediumHandlesFrom tells if a frame that sender puts on c should be handled
// by the medium of c rather than handed to the device of c directly.
func mediumHandlesFrom(c *Connection, sender Node) bool {
	return sender.Kind() == KindEndDevice || sender == c.device
}
