package medium

import (
	"github.com/rs/xid"

	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/lan/frame"
	"github.com/sarchlab/linksim/sim"
)

// An EndDevice sends and receives frames. It keeps a log of what it received.
type EndDevice struct {
	*sim.ComponentBase

	received []*frame.Frame
}

// NewEndDevice creates an EndDevice. An empty name gets a random one.
func NewEndDevice(name string) *EndDevice {
	if name == "" {
		name = xid.New().String()
	}

	return &EndDevice{
		ComponentBase: sim.NewComponentBase(name),
	}
}

// Kind returns KindEndDevice.
func (d *EndDevice) Kind() Kind {
	return KindEndDevice
}

// Send transmits a frame through c.
func (d *EndDevice) Send(f *frame.Frame, c *Connection) *contention.Attempt {
	invokeHook(d, c.medium.engine().CurrentTime(), HookPosSend, f, c)

	return c.Transmit(d, f)
}

// Handle records delivered frames.
func (d *EndDevice) Handle(e sim.Event) error {
	d.Lock()
	defer d.Unlock()

	switch evt := e.(type) {
	case *deliveryEvent:
		d.received = append(d.received, evt.delivery.Frame)
		invokeHook(d, evt.Time(), HookPosReceive, evt.delivery, nil)
	default:
		panicUnknownEvent(d, e)
	}

	return nil
}

// Received returns the frames received so far, in arrival order.
func (d *EndDevice) Received() []*frame.Frame {
	d.Lock()
	defer d.Unlock()

	frames := make([]*frame.Frame, len(d.received))
	copy(frames, d.received)

	return frames
}

// ReceivedContents returns the contents of the received frames.
func (d *EndDevice) ReceivedContents() []string {
	frames := d.Received()

	contents := make([]string, len(frames))
	for i, f := range frames {
		contents[i] = f.Content()
	}

	return contents
}
