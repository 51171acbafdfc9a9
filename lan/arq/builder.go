package arq

import (
	"github.com/sarchlab/linksim/lan/outcome"
	"github.com/sarchlab/linksim/sim"
)

// Default parameters of a session.
const (
	DefaultWindowSize                 = 5
	DefaultInterval    sim.VTimeInSec = 0.5
	DefaultMaxRestarts                = 10
)

// A Builder can build sessions.
type Builder struct {
	engine      sim.Engine
	source      outcome.Source
	protocol    Protocol
	windowSize  int
	interval    sim.VTimeInSec
	maxAttempts int
	maxRestarts int
	timeout     sim.VTimeInSec
	contention  bool
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		protocol:    StopAndWait,
		windowSize:  DefaultWindowSize,
		interval:    DefaultInterval,
		maxRestarts: DefaultMaxRestarts,
	}
}

// WithEngine sets the engine that the sessions schedule events on.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithOutcomeSource sets the source of acknowledgments.
func (b Builder) WithOutcomeSource(s outcome.Source) Builder {
	b.source = s
	return b
}

// WithProtocol sets the protocol.
func (b Builder) WithProtocol(p Protocol) Builder {
	b.protocol = p
	return b
}

// WithWindowSize sets the number of frames a window holds. Stop-and-Wait
// always uses a single frame.
func (b Builder) WithWindowSize(n int) Builder {
	b.windowSize = n
	return b
}

// WithInterval sets the pacing between two frames.
func (b Builder) WithInterval(t sim.VTimeInSec) Builder {
	b.interval = t
	return b
}

// WithMaxAttempts bounds how many times Stop-and-Wait sends its frame. Zero
// means unbounded.
func (b Builder) WithMaxAttempts(n int) Builder {
	b.maxAttempts = n
	return b
}

// WithMaxRestarts bounds how many times Go-Back-N restarts its window. Zero
// means unbounded.
func (b Builder) WithMaxRestarts(n int) Builder {
	b.maxRestarts = n
	return b
}

// WithTimeout cancels the session with ErrTimeout once t has passed. Zero
// disables the timeout.
func (b Builder) WithTimeout(t sim.VTimeInSec) Builder {
	b.timeout = t
	return b
}

// WithContention makes every transmission, retransmissions included, go
// through the contention of the link. By default, frames are forwarded
// directly.
func (b Builder) WithContention(on bool) Builder {
	b.contention = on
	return b
}

// Build creates a Session.
func (b Builder) Build(name string) *Session {
	b.engineMustBeGiven()
	b.sourceMustBeGiven()
	b.parametersMustBeValid()

	return &Session{
		ComponentBase: sim.NewComponentBase(name),
		engine:        b.engine,
		source:        b.source,
		protocol:      b.protocol,
		windowSize:    b.windowSize,
		interval:      b.interval,
		maxAttempts:   b.maxAttempts,
		maxRestarts:   b.maxRestarts,
		timeout:       b.timeout,
		contention:    b.contention,
	}
}

func (b Builder) engineMustBeGiven() {
	if b.engine == nil {
		panic("engine is not given")
	}
}

func (b Builder) sourceMustBeGiven() {
	if b.source == nil {
		panic("outcome source is not given")
	}
}

func (b Builder) parametersMustBeValid() {
	if b.protocol < StopAndWait || b.protocol > SelectiveRepeat {
		panic("unknown protocol " + b.protocol.String())
	}

	if b.windowSize <= 0 {
		panic("window size must be positive")
	}

	if b.interval <= 0 {
		panic("interval must be positive")
	}

	if b.maxAttempts < 0 || b.maxRestarts < 0 {
		panic("retry bounds must not be negative")
	}

	if b.timeout < 0 {
		panic("timeout must not be negative")
	}
}
