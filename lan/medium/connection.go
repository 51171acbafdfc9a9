package medium

import (
	"fmt"
	"sync/atomic"

	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/lan/frame"
	"github.com/sarchlab/linksim/sim"
)

// A Connection links one node to one medium. The medium owns the connection;
// the connection only refers to the device.
type Connection struct {
	name     string
	medium   Medium
	device   Node
	latency  sim.VTimeInSec
	detached atomic.Bool
	attached atomic.Bool
}

// Name returns the name of the connection.
func (c *Connection) Name() string {
	return c.name
}

// Medium returns the medium that owns the connection.
func (c *Connection) Medium() Medium {
	return c.medium
}

// Device returns the node at the far end of the connection.
func (c *Connection) Device() Node {
	return c.device
}

// Latency returns the propagation delay of the connection.
func (c *Connection) Latency() sim.VTimeInSec {
	return c.latency
}

// Attached tells if the connection is connected to its medium and can carry
// frames.
func (c *Connection) Attached() bool {
	return c.attached.Load() && !c.detached.Load()
}

// Transmit sends a frame from sender through the connection.
//
// An end device on a switch is learned right away and then contends for the
// medium; the returned attempt reports the result of the contention. A frame
// on a hub is repeated by the hub. A medium that transmits on a connection
// whose device is some other node hands the frame straight to that node.
// Transmit returns nil whenever no contention is involved.
func (c *Connection) Transmit(
	sender Node,
	f *frame.Frame,
) *contention.Attempt {
	c.mustBeAttached()
	return c.medium.transmit(c, sender, f, false)
}

// Forward sends a frame through the connection like Transmit does, but skips
// the contention.
func (c *Connection) Forward(sender Node, f *frame.Frame) {
	c.mustBeAttached()
	c.medium.transmit(c, sender, f, true)
}

func (c *Connection) mustBeAttached() {
	if !c.Attached() {
		panic(fmt.Sprintf("connection %s is not attached", c.name))
	}
}

func (c *Connection) String() string {
	return c.name
}

// ConnectionBuilder can build connections.
type ConnectionBuilder struct {
	name    string
	latency sim.VTimeInSec
}

// MakeConnectionBuilder returns a ConnectionBuilder with default
// parameters.
func MakeConnectionBuilder() ConnectionBuilder {
	return ConnectionBuilder{}
}

// WithName sets the name of the connection. By default, the connection is
// named "<medium>.<device>".
func (b ConnectionBuilder) WithName(name string) ConnectionBuilder {
	b.name = name
	return b
}

// WithLatency sets the propagation delay.
func (b ConnectionBuilder) WithLatency(t sim.VTimeInSec) ConnectionBuilder {
	b.latency = t
	return b
}

// Build creates a connection between dev and m. The connection still needs
// to be connected to the medium.
func (b ConnectionBuilder) Build(dev Node, m Medium) *Connection {
	if dev == nil || m == nil {
		panic("connection needs both a device and a medium")
	}

	if b.latency < 0 {
		panic("latency must not be negative")
	}

	name := b.name
	if name == "" {
		name = m.Name() + "." + dev.Name()
	}

	sim.NameMustBeValid(name)

	return &Connection{
		name:    name,
		medium:  m,
		device:  dev,
		latency: b.latency,
	}
}

// Attach connects dev to m with a new connection.
func Attach(m Medium, dev Node) *Connection {
	c := MakeConnectionBuilder().Build(dev, m)
	m.Connect(c)

	return c
}

// Link connects two media with each other. Each medium owns one of the
// returned connections, whose device is the other medium.
func Link(a, b Medium) (*Connection, *Connection) {
	return Attach(a, b), Attach(b, a)
}
