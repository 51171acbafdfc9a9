// Package outcome provides the sources that decide whether a transmission
// collides and whether a frame gets acknowledged.
package outcome

import (
	"math/rand"
	"sync"
)

// A Source decides the result of the random physical events of a link.
type Source interface {
	// NextCollision tells if the next carrier-sensing step detects a
	// collision.
	NextCollision() bool

	// NextAck tells if the frame with the given sequence number is
	// acknowledged positively.
	NextAck(seq int) bool
}

// Random is a Source that flips fair coins from a seeded generator.
type Random struct {
	lock sync.Mutex
	rng  *rand.Rand
}

// NewRandom creates a Random source. The same seed always produces the same
// sequence of outcomes.
func NewRandom(seed int64) *Random {
	return &Random{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NextCollision returns true with a probability of 1/2.
func (r *Random) NextCollision() bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.rng.Intn(2) == 1
}

// NextAck returns true with a probability of 1/2.
func (r *Random) NextAck(_ int) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.rng.Intn(2) == 1
}

// Constant is a Source that never changes its mind.
type Constant struct {
	Collide bool
	Ack     bool
}

// NextCollision returns c.Collide.
func (c Constant) NextCollision() bool {
	return c.Collide
}

// NextAck returns c.Ack.
func (c Constant) NextAck(_ int) bool {
	return c.Ack
}
