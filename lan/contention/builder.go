package contention

import (
	"math/rand"

	"github.com/sarchlab/linksim/lan/outcome"
	"github.com/sarchlab/linksim/sim"
)

// DefaultMaxAttempts is the number of collisions after which an attempt gives
// up.
const DefaultMaxAttempts = 10

// DefaultBaseUnit is the backoff slot length.
const DefaultBaseUnit sim.VTimeInSec = 0.001

// A Builder can build contention controllers.
type Builder struct {
	engine      sim.Engine
	source      outcome.Source
	seed        int64
	rng         *rand.Rand
	maxAttempts int
	baseUnit    sim.VTimeInSec
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		seed:        1,
		maxAttempts: DefaultMaxAttempts,
		baseUnit:    DefaultBaseUnit,
	}
}

// WithEngine sets the engine that schedules sensing steps.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithOutcomeSource sets the source that decides collisions.
func (b Builder) WithOutcomeSource(s outcome.Source) Builder {
	b.source = s
	return b
}

// WithSeed sets the seed of the backoff jitter.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithRand sets the generator of the backoff jitter. It overrides WithSeed.
func (b Builder) WithRand(rng *rand.Rand) Builder {
	b.rng = rng
	return b
}

// WithMaxAttempts sets the number of collisions an attempt tolerates.
func (b Builder) WithMaxAttempts(n int) Builder {
	b.maxAttempts = n
	return b
}

// WithBaseUnit sets the backoff slot length.
func (b Builder) WithBaseUnit(t sim.VTimeInSec) Builder {
	b.baseUnit = t
	return b
}

// Build creates a Controller.
func (b Builder) Build(name string) *Controller {
	b.engineMustBeGiven()
	b.sourceMustBeGiven()
	b.parametersMustBeValid()

	rng := b.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(b.seed))
	}

	return &Controller{
		ComponentBase: sim.NewComponentBase(name),
		engine:        b.engine,
		source:        b.source,
		rng:           rng,
		maxAttempts:   b.maxAttempts,
		baseUnit:      b.baseUnit,
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
	if b.maxAttempts <= 0 {
		panic("max attempts must be positive")
	}

	if b.baseUnit <= 0 {
		panic("backoff base unit must be positive")
	}
}
