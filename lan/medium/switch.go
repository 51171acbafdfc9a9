package medium

import (
	"github.com/sarchlab/linksim/lan/addressing"
	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/lan/frame"
	"github.com/sarchlab/linksim/sim"
)

// A Switch learns where devices are and forwards frames only to the
// connection that leads to the destination.
type Switch struct {
	mediumBase

	table      addressing.Table
	contention *contention.Controller
}

// Kind returns KindSwitch.
func (s *Switch) Kind() Kind {
	return KindSwitch
}

// AddressTable returns the table of the switch. The table is only written
// while the switch handles an event; reading it from outside the simulation
// is safe.
func (s *Switch) AddressTable() addressing.Table {
	return s.table
}

// Contention returns the contention controller, or nil if frames from end
// devices are forwarded without contention.
func (s *Switch) Contention() *contention.Controller {
	return s.contention
}

type learnEvent struct {
	*sim.EventBase
	device string
	conn   *Connection
}

// A LookupReq asks a switch where a device is. The switch calls Reply while
// handling the request. Conn is nil if the device is unknown.
type LookupReq struct {
	*sim.EventBase
	Device string
	Reply  func(conn *Connection, found bool)
}

// NewLookupReq creates a LookupReq for s.
func NewLookupReq(
	t sim.VTimeInSec,
	s *Switch,
	device string,
	reply func(conn *Connection, found bool),
) *LookupReq {
	return &LookupReq{
		EventBase: sim.NewEventBase(t, s),
		Device:    device,
		Reply:     reply,
	}
}

// Handle processes deliveries, learn requests, and lookups.
func (s *Switch) Handle(e sim.Event) error {
	s.Lock()
	defer s.Unlock()

	switch evt := e.(type) {
	case *deliveryEvent:
		s.forward(evt.Time(), evt.delivery)
	case *learnEvent:
		s.learn(evt.Time(), evt.device, evt.conn)
	case *LookupReq:
		conn := s.resolve(evt.Time(), evt.Device)
		evt.Reply(conn, conn != nil)
	default:
		panicUnknownEvent(s, e)
	}

	return nil
}

func (s *Switch) forward(now sim.VTimeInSec, d Delivery) {
	inbound := s.inboundOf(d)
	if inbound != nil {
		s.learn(now, d.Origin.Name(), inbound)
	}

	dst, ok := d.Frame.Destination()
	if ok {
		target := s.resolve(now, dst)

		if target != nil && target == inbound {
			invokeHook(s, now, HookPosLoopbackDrop, d, dst)
			return
		}

		if target != nil {
			s.deliver(now, target, d, HookPosForward)
			return
		}
	}

	s.flood(now, d, inbound)
}

// flood delivers to every connection except the inbound one. A sender with
// a second connection to the switch receives the frame on that connection.
func (s *Switch) flood(now sim.VTimeInSec, d Delivery, inbound *Connection) {
	for _, c := range s.conns {
		if c == inbound {
			continue
		}

		s.deliver(now, c, d, HookPosFlood)
	}
}

func (s *Switch) learn(now sim.VTimeInSec, device string, c *Connection) {
	s.table.Learn(device, c.name, now)

	invokeHook(s, now, HookPosLearn, addressing.Entry{
		Device:     device,
		Connection: c.name,
		LearnedAt:  now,
	}, nil)
}

// inboundOf finds the connection of the switch that a frame came in from.
// A frame that another medium hands over comes in from the connection whose
// device is that medium.
func (s *Switch) inboundOf(d Delivery) *Connection {
	if d.Via.medium == Medium(s) {
		if !d.Via.Attached() {
			return nil
		}

		return d.Via
	}

	for _, c := range s.conns {
		if c.device == d.From {
			return c
		}
	}

	return nil
}

// resolve returns the attached connection that leads to device, or nil.
func (s *Switch) resolve(now sim.VTimeInSec, device string) *Connection {
	name, found := s.table.Lookup(device, now)
	if !found {
		return nil
	}

	for _, c := range s.conns {
		if c.name == name {
			return c
		}
	}

	return nil
}

func (s *Switch) transmit(
	c *Connection,
	sender Node,
	f *frame.Frame,
	direct bool,
) *contention.Attempt {
	d := Delivery{
		Origin: sender,
		From:   sender,
		Via:    c,
		Frame:  f,
	}

	if !mediumHandlesFrom(c, sender) {
		s.handOver(c, sender, d)
		return nil
	}

	now := s.eng.CurrentTime()

	if direct || sender.Kind() != KindEndDevice || s.contention == nil {
		s.accept(now, d)
		return nil
	}

	s.eng.Schedule(&learnEvent{
		EventBase: sim.NewEventBase(now, s),
		device:    sender.Name(),
		conn:      c,
	})

	return s.contention.AttemptSend(sender.Name(), f,
		func(t sim.VTimeInSec) {
			s.accept(t, d)
		})
}
