package outcome

import "sync"

// Script is a Source that replays pre-recorded outcomes. Once a queue runs
// out, the matching default is returned.
type Script struct {
	lock sync.Mutex

	collisions []bool
	acks       []bool

	DefaultCollision bool
	DefaultAck       bool

	collisionSamples int
	ackSamples       []int
}

// NewScript creates an empty Script that never collides and always
// acknowledges.
func NewScript() *Script {
	return &Script{DefaultAck: true}
}

// QueueCollisions appends collision outcomes.
func (s *Script) QueueCollisions(outcomes ...bool) *Script {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.collisions = append(s.collisions, outcomes...)

	return s
}

// QueueAcks appends acknowledgment outcomes.
func (s *Script) QueueAcks(outcomes ...bool) *Script {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.acks = append(s.acks, outcomes...)

	return s
}

// NextCollision pops the next collision outcome.
func (s *Script) NextCollision() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.collisionSamples++

	if len(s.collisions) == 0 {
		return s.DefaultCollision
	}

	o := s.collisions[0]
	s.collisions = s.collisions[1:]

	return o
}

// NextAck pops the next acknowledgment outcome.
func (s *Script) NextAck(seq int) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.ackSamples = append(s.ackSamples, seq)

	if len(s.acks) == 0 {
		return s.DefaultAck
	}

	o := s.acks[0]
	s.acks = s.acks[1:]

	return o
}

// CollisionSamples returns how many times NextCollision was called.
func (s *Script) CollisionSamples() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.collisionSamples
}

// AckSamples returns the sequence numbers passed to NextAck, in call order.
func (s *Script) AckSamples() []int {
	s.lock.Lock()
	defer s.lock.Unlock()

	samples := make([]int, len(s.ackSamples))
	copy(samples, s.ackSamples)

	return samples
}
