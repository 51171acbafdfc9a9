package tracing

import (
	"sync"

	"github.com/sarchlab/linksim/datarecording"
	"github.com/sarchlab/linksim/sim"
)

// EventTable is the table that a DBTracer writes.
const EventTable = "linksim_events"

// DBTracer is a tracer that can store events into a database.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder
	seq     int

	startTime, endTime sim.VTimeInSec
}

// NewDBTracer creates a new DBTracer and the table that it writes.
func NewDBTracer(backend datarecording.DataRecorder) *DBTracer {
	backend.CreateTable(EventTable, Event{})

	return &DBTracer{
		backend: backend,
	}
}

// SetTimeRange sets the time range of the events to store. A zero end time
// means no upper bound.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTimeInSec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// Record stores the event if it falls into the time range.
func (t *DBTracer) Record(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e.Time < t.startTime {
		return
	}

	if t.endTime > 0 && e.Time > t.endTime {
		return
	}

	e.Seq = t.seq
	t.seq++

	t.backend.InsertData(EventTable, e)
}

// Flush writes the buffered events into the database.
func (t *DBTracer) Flush() {
	t.backend.Flush()
}
