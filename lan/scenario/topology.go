// Package scenario builds the topologies that linksim runs and drives the
// traffic through them.
package scenario

import (
	"errors"
	"fmt"

	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/lan/medium"
	"github.com/sarchlab/linksim/lan/outcome"
	"github.com/sarchlab/linksim/sim"
	"github.com/sarchlab/linksim/simulation"
)

// DefaultNumDevices is the number of devices of the star and switch
// topologies.
const DefaultNumDevices = 5

// ErrInvalidDevice is returned when a device number is out of range.
var ErrInvalidDevice = errors.New("invalid device")

// DeviceName returns the name of the i-th device, counting from 1.
func DeviceName(i int) string {
	return fmt.Sprintf("Device %d", i)
}

// A Topology is a set of end devices attached to one medium.
type Topology struct {
	engine sim.Engine

	Medium      medium.Medium
	Devices     []*medium.EndDevice
	Connections []*medium.Connection
}

// Device returns the i-th device and its connection, counting from 1.
func (t *Topology) Device(i int) (*medium.EndDevice, *medium.Connection, error) {
	if i < 1 || i > len(t.Devices) {
		return nil, nil, fmt.Errorf("%w: %d is not in 1-%d",
			ErrInvalidDevice, i, len(t.Devices))
	}

	return t.Devices[i-1], t.Connections[i-1], nil
}

// Lookup asks the switch of the topology where a device is and runs the
// engine until the switch answers.
func (t *Topology) Lookup(device string) (*medium.Connection, bool, error) {
	sw, ok := t.Medium.(*medium.Switch)
	if !ok {
		return nil, false, fmt.Errorf("%s is not a switch", t.Medium.Name())
	}

	var (
		conn  *medium.Connection
		found bool
	)

	t.engine.Schedule(medium.NewLookupReq(t.engine.CurrentTime(), sw, device,
		func(c *medium.Connection, f bool) {
			conn, found = c, f
		}))

	err := t.engine.Run()
	if err != nil {
		return nil, false, err
	}

	return conn, found, nil
}

// Builder builds topologies inside a simulation.
type Builder struct {
	simulation *simulation.Simulation
	numDevices int
	names      []string
	source     outcome.Source
	seed       int64
	latency    sim.VTimeInSec
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		numDevices: DefaultNumDevices,
		seed:       1,
	}
}

// WithSimulation sets the simulation that runs the topology.
func (b Builder) WithSimulation(s *simulation.Simulation) Builder {
	b.simulation = s
	return b
}

// WithNumDevices sets the number of end devices.
func (b Builder) WithNumDevices(n int) Builder {
	b.numDevices = n
	return b
}

// WithDeviceNames names the end devices. It overrides the number of devices.
func (b Builder) WithDeviceNames(names ...string) Builder {
	b.names = names
	b.numDevices = len(names)

	return b
}

// WithOutcomeSource sets the collision oracle of the switch. By default, a
// random source seeded with the seed of the builder is used.
func (b Builder) WithOutcomeSource(s outcome.Source) Builder {
	b.source = s
	return b
}

// WithSeed sets the seed of the random collision oracle and of the backoff
// jitter.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithLatency sets the propagation latency of every connection.
func (b Builder) WithLatency(t sim.VTimeInSec) Builder {
	b.latency = t
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.simulation == nil {
		panic("simulation is not given")
	}

	if b.numDevices < 1 {
		panic("a topology needs at least one device")
	}

	if b.latency < 0 {
		panic("latency must not be negative")
	}
}

// BuildHub builds the end devices around a hub.
func (b Builder) BuildHub(name string) *Topology {
	b.parametersMustBeValid()

	hub := medium.MakeHubBuilder().
		WithEngine(b.simulation.GetEngine()).
		Build(name)
	b.simulation.RegisterComponent(hub)

	return b.attachDevices(hub)
}

// BuildSwitch builds the end devices around a switch that sends
// through CSMA/CD.
func (b Builder) BuildSwitch(name string) *Topology {
	b.parametersMustBeValid()

	engine := b.simulation.GetEngine()

	source := b.source
	if source == nil {
		source = outcome.NewRandom(b.seed)
	}

	ctrl := contention.MakeBuilder().
		WithEngine(engine).
		WithOutcomeSource(source).
		WithSeed(b.seed).
		Build(name + ".CSMA")
	b.simulation.RegisterComponent(ctrl)

	sw := medium.MakeSwitchBuilder().
		WithEngine(engine).
		WithContention(ctrl).
		Build(name)
	b.simulation.RegisterComponent(sw)

	return b.attachDevices(sw)
}

func (b Builder) attachDevices(m medium.Medium) *Topology {
	t := &Topology{
		engine: b.simulation.GetEngine(),
		Medium: m,
	}

	for i := 1; i <= b.numDevices; i++ {
		name := DeviceName(i)
		if len(b.names) > 0 {
			name = b.names[i-1]
		}

		d := medium.NewEndDevice(name)
		b.simulation.RegisterComponent(d)

		c := medium.MakeConnectionBuilder().
			WithLatency(b.latency).
			Build(d, m)
		m.Connect(c)

		t.Devices = append(t.Devices, d)
		t.Connections = append(t.Connections, c)
	}

	return t
}
