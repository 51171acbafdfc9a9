// Package medium models the devices of a link-layer network and the shared or
// switched media that connect them.
//
// Every node is an actor. Nodes never touch each other's state. They schedule
// delivery events on the engine instead, and the receiving node reacts in its
// own Handle method.
package medium

import (
	"fmt"

	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/lan/frame"
	"github.com/sarchlab/linksim/sim"
)

// Kind identifies what a node does with the frames it receives.
type Kind int

// The kinds of nodes.
const (
	KindEndDevice Kind = iota
	KindHub
	KindSwitch
)

func (k Kind) String() string {
	switch k {
	case KindEndDevice:
		return "end-device"
	case KindHub:
		return "hub"
	case KindSwitch:
		return "switch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// A Node is anything that can sit at the end of a connection.
type Node interface {
	sim.Component

	Kind() Kind
	InvokeHook(ctx sim.HookCtx)
}

// A Medium is a node that owns connections and carries frames between them.
// Hub and Switch are the only media.
type Medium interface {
	Node

	// Connect adds a connection that was built for this medium.
	Connect(c *Connection)

	// Disconnect detaches a connection. The connection can no longer carry
	// frames.
	Disconnect(c *Connection)

	// Connections returns the attached connections in insertion order.
	Connections() []*Connection

	// HopLimit returns the number of hops a frame may travel.
	HopLimit() int

	engine() sim.Engine
	transmit(
		c *Connection,
		sender Node,
		f *frame.Frame,
		direct bool,
	) *contention.Attempt
}

// DefaultHopLimit is the number of media a frame may cross before it is
// dropped.
const DefaultHopLimit = 16

// A Delivery is a frame on its way to a node.
type Delivery struct {
	// Origin is the node that sent the frame in the first place.
	Origin Node

	// From is the node that handed the frame over in the last hop.
	From Node

	// Via is the connection the frame travels on.
	Via *Connection

	Frame *frame.Frame

	// Hops counts how many times the frame was handed over.
	Hops int
}

func (d Delivery) String() string {
	return fmt.Sprintf("%s -> %s [%s] %s",
		d.From.Name(), d.Via.Name(), d.Origin.Name(), d.Frame.Content())
}

type deliveryEvent struct {
	*sim.EventBase
	delivery Delivery
}

func newDeliveryEvent(
	t sim.VTimeInSec,
	to Node,
	d Delivery,
) *deliveryEvent {
	return &deliveryEvent{
		EventBase: sim.NewEventBase(t, to),
		delivery:  d,
	}
}
