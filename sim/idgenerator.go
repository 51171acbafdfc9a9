package sim

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator produces the IDs of frames, events and attempts.
type IDGenerator interface {
	Generate() string
}

var (
	idGeneratorLock sync.Mutex
	idGenerator     IDGenerator = &sequentialIDGenerator{}
)

// GetIDGenerator returns the generator in use. IDs are sequential numbers
// until UseXIDGenerator is called.
func GetIDGenerator() IDGenerator {
	idGeneratorLock.Lock()
	defer idGeneratorLock.Unlock()

	return idGenerator
}

// UseSequentialIDGenerator makes IDs sequential numbers starting from 1.
func UseSequentialIDGenerator() {
	idGeneratorLock.Lock()
	idGenerator = &sequentialIDGenerator{}
	idGeneratorLock.Unlock()
}

// UseXIDGenerator makes IDs xids, which stay unique across processes.
func UseXIDGenerator() {
	idGeneratorLock.Lock()
	idGenerator = xidGenerator{}
	idGeneratorLock.Unlock()
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(atomic.AddUint64(&g.nextID, 1), 10)
}

type xidGenerator struct{}

func (xidGenerator) Generate() string {
	return xid.New().String()
}
