package addressing

import (
	"fmt"

	"github.com/sarchlab/linksim/sim"
)

// DefaultAgingTime is how long an entry stays valid without being refreshed.
const DefaultAgingTime sim.VTimeInSec = 300

// Builder can build address tables.
type Builder struct {
	agingTime sim.VTimeInSec
	capacity  int
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		agingTime: DefaultAgingTime,
	}
}

// WithAgingTime sets the aging time. Zero disables aging.
func (b Builder) WithAgingTime(t sim.VTimeInSec) Builder {
	b.agingTime = t
	return b
}

// WithCapacity sets the maximum number of entries. Zero means unlimited.
func (b Builder) WithCapacity(n int) Builder {
	b.capacity = n
	return b
}

// Build creates a new Table.
func (b Builder) Build() Table {
	if b.agingTime < 0 {
		panic(fmt.Sprintf("aging time must not be negative, got %v",
			b.agingTime))
	}

	if b.capacity < 0 {
		panic(fmt.Sprintf("capacity must not be negative, got %d",
			b.capacity))
	}

	return &table{
		entries:   make(map[string]*entry),
		agingTime: b.agingTime,
		capacity:  b.capacity,
	}
}

// NewTable creates a Table with the default parameters.
func NewTable() Table {
	return MakeBuilder().Build()
}
