package scenario

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/sarchlab/linksim/lan/arq"
	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/lan/frame"
	"github.com/sarchlab/linksim/lan/outcome"
	"github.com/sarchlab/linksim/sim"
	"github.com/sarchlab/linksim/simulation"
)

// ErrSameDevice is returned when a device is asked to send to itself.
var ErrSameDevice = errors.New("sender and receiver must be different")

// ProtocolCSMA names the plain CSMA/CD transmission of the switch scenario.
const ProtocolCSMA = "csma"

// PickDevice draws a device number from 1 to n.
func PickDevice(rng *rand.Rand, n int) int {
	return rng.Intn(n) + 1
}

// DedicatedLink connects Device 1 and Device 2 through Hub 1 and sends the
// message from Device 1.
func DedicatedLink(s *simulation.Simulation, message string) (*Topology, error) {
	t := MakeBuilder().
		WithSimulation(s).
		WithNumDevices(2).
		BuildHub("Hub 1")

	d, c, _ := t.Device(1)
	d.Send(frame.New(message), c)

	return t, s.Run()
}

// Star connects five devices to Hub 1 and sends the message from the
// sender.
func Star(
	s *simulation.Simulation,
	sender int,
	message string,
) (*Topology, error) {
	err := deviceMustBeValid(sender)
	if err != nil {
		return nil, err
	}

	t := MakeBuilder().
		WithSimulation(s).
		BuildHub("Hub 1")

	d, c, _ := t.Device(sender)
	d.Send(frame.New(message), c)

	return t, s.Run()
}

// SwitchConfig selects the traffic of the switch scenario.
type SwitchConfig struct {
	Sender   int
	Receiver int
	Message  string

	// Protocol is "csma" or one of the ARQ protocols.
	Protocol string

	// Source decides collisions and acknowledgments. By default, a random
	// source seeded with Seed is used.
	Source outcome.Source
	Seed   int64

	// The ARQ parameters. Zero values keep the defaults of arq.Builder.
	WindowSize  int
	MaxAttempts int
	MaxRestarts int
	Timeout     sim.VTimeInSec
	Contention  bool
}

// SwitchResult is what the switch scenario produced.
type SwitchResult struct {
	Topology *Topology

	// Attempt is set for plain CSMA/CD transmissions.
	Attempt *contention.Attempt

	// Session is set for ARQ transmissions.
	Session *arq.Session
}

// Switched connects five devices to Switch 1 and sends the message from the
// sender to the receiver with the chosen protocol.
func Switched(s *simulation.Simulation, cfg SwitchConfig) (*SwitchResult, error) {
	err := endpointsMustBeValid(cfg.Sender, cfg.Receiver)
	if err != nil {
		return nil, err
	}

	useARQ := cfg.Protocol != ProtocolCSMA

	var protocol arq.Protocol
	if useARQ {
		protocol, err = arq.ParseProtocol(cfg.Protocol)
		if err != nil {
			return nil, err
		}
	}

	source := cfg.Source
	if source == nil {
		source = outcome.NewRandom(cfg.Seed)
	}

	t := MakeBuilder().
		WithSimulation(s).
		WithOutcomeSource(source).
		WithSeed(cfg.Seed).
		BuildSwitch("Switch 1")

	d, c, _ := t.Device(cfg.Sender)
	msg := frame.Compose(DeviceName(cfg.Receiver), cfg.Message)
	r := &SwitchResult{Topology: t}

	if !useARQ {
		r.Attempt = d.Send(msg, c)
		return r, s.Run()
	}

	r.Session = buildSession(s, cfg, protocol, source)
	s.TrackSessions("ARQ", r.Session)
	r.Session.Start(d, c, msg)

	return r, s.Run()
}

func buildSession(
	s *simulation.Simulation,
	cfg SwitchConfig,
	protocol arq.Protocol,
	source outcome.Source,
) *arq.Session {
	b := arq.MakeBuilder().
		WithEngine(s.GetEngine()).
		WithOutcomeSource(source).
		WithProtocol(protocol).
		WithContention(cfg.Contention)

	if cfg.WindowSize > 0 {
		b = b.WithWindowSize(cfg.WindowSize)
	}

	if cfg.MaxAttempts > 0 {
		b = b.WithMaxAttempts(cfg.MaxAttempts)
	}

	if cfg.MaxRestarts > 0 {
		b = b.WithMaxRestarts(cfg.MaxRestarts)
	}

	if cfg.Timeout > 0 {
		b = b.WithTimeout(cfg.Timeout)
	}

	sess := b.Build(fmt.Sprintf("%s.%s", DeviceName(cfg.Sender), protocol))
	s.RegisterComponent(sess)

	return sess
}

// Learning runs the address learning exchange on Switch 1 with devices A, B
// and C. A sends "B: hello", then B answers "A: hi".
func Learning(s *simulation.Simulation) (*Topology, error) {
	b := MakeBuilder().
		WithSimulation(s).
		WithDeviceNames("A", "B", "C").
		WithOutcomeSource(outcome.Constant{Ack: true})
	t := b.BuildSwitch("Switch 1")

	a, ca, _ := t.Device(1)
	bd, cb, _ := t.Device(2)

	a.Send(frame.Compose(bd.Name(), "hello"), ca)

	err := s.Run()
	if err != nil {
		return t, err
	}

	bd.Send(frame.Compose(a.Name(), "hi"), cb)

	return t, s.Run()
}

func deviceMustBeValid(i int) error {
	if i < 1 || i > DefaultNumDevices {
		return fmt.Errorf("%w: %d is not in 1-%d",
			ErrInvalidDevice, i, DefaultNumDevices)
	}

	return nil
}

func endpointsMustBeValid(sender, receiver int) error {
	err := deviceMustBeValid(sender)
	if err != nil {
		return err
	}

	err = deviceMustBeValid(receiver)
	if err != nil {
		return err
	}

	if sender == receiver {
		return fmt.Errorf("%w: %s", ErrSameDevice, DeviceName(sender))
	}

	return nil
}
