package medium

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/linksim/lan/addressing"
	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/sim"
)

// HubBuilder can build hubs.
type HubBuilder struct {
	engine   sim.Engine
	hopLimit int
}

// MakeHubBuilder returns a HubBuilder with default parameters.
func MakeHubBuilder() HubBuilder {
	return HubBuilder{
		hopLimit: DefaultHopLimit,
	}
}

// WithEngine sets the engine that the hub schedules deliveries on.
func (b HubBuilder) WithEngine(engine sim.Engine) HubBuilder {
	b.engine = engine
	return b
}

// WithHopLimit sets the number of hops a frame may travel.
func (b HubBuilder) WithHopLimit(n int) HubBuilder {
	b.hopLimit = n
	return b
}

// Build creates a Hub.
func (b HubBuilder) Build(name string) *Hub {
	engineMustBeGiven(b.engine)
	hopLimitMustBeValid(b.hopLimit)

	h := &Hub{}
	h.mediumBase = mediumBase{
		ComponentBase: sim.NewComponentBase(name),
		self:          h,
		eng:           b.engine,
		hopLimit:      b.hopLimit,
	}

	return h
}

// SwitchBuilder can build switches.
type SwitchBuilder struct {
	engine        sim.Engine
	hopLimit      int
	table         addressing.Table
	agingTime     sim.VTimeInSec
	tableCapacity int
	contention    *contention.Controller
}

// MakeSwitchBuilder returns a SwitchBuilder with default parameters.
func MakeSwitchBuilder() SwitchBuilder {
	return SwitchBuilder{
		hopLimit:  DefaultHopLimit,
		agingTime: addressing.DefaultAgingTime,
	}
}

// WithEngine sets the engine that the switch schedules deliveries on.
func (b SwitchBuilder) WithEngine(engine sim.Engine) SwitchBuilder {
	b.engine = engine
	return b
}

// WithHopLimit sets the number of hops a frame may travel.
func (b SwitchBuilder) WithHopLimit(n int) SwitchBuilder {
	b.hopLimit = n
	return b
}

// WithAddressTable sets the table of the switch. It overrides the aging time
// and the capacity.
func (b SwitchBuilder) WithAddressTable(t addressing.Table) SwitchBuilder {
	b.table = t
	return b
}

// WithAgingTime sets how long the switch remembers a device.
func (b SwitchBuilder) WithAgingTime(t sim.VTimeInSec) SwitchBuilder {
	b.agingTime = t
	return b
}

// WithTableCapacity sets how many devices the switch can remember.
func (b SwitchBuilder) WithTableCapacity(n int) SwitchBuilder {
	b.tableCapacity = n
	return b
}

// WithContention makes the frames of end devices contend for the switch
// through c.
func (b SwitchBuilder) WithContention(c *contention.Controller) SwitchBuilder {
	b.contention = c
	return b
}

// Build creates a Switch.
func (b SwitchBuilder) Build(name string) *Switch {
	engineMustBeGiven(b.engine)
	hopLimitMustBeValid(b.hopLimit)

	table := b.table
	if table == nil {
		table = addressing.MakeBuilder().
			WithAgingTime(b.agingTime).
			WithCapacity(b.tableCapacity).
			Build()
	}

	s := &Switch{
		table:      table,
		contention: b.contention,
	}
	s.mediumBase = mediumBase{
		ComponentBase: sim.NewComponentBase(name),
		self:          s,
		eng:           b.engine,
		hopLimit:      b.hopLimit,
	}

	return s
}

func engineMustBeGiven(engine sim.Engine) {
	if engine == nil {
		panic("engine is not given")
	}
}

func hopLimitMustBeValid(n int) {
	if n <= 0 {
		panic(fmt.Sprintf("hop limit must be positive, got %d", n))
	}
}

func panicUnknownEvent(n Node, e sim.Event) {
	panic(fmt.Sprintf("%s cannot handle event of type %s",
		n.Name(), reflect.TypeOf(e)))
}
