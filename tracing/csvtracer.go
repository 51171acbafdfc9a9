package tracing

import (
	"encoding/csv"
	"io"
	"strconv"
	"sync"
)

// CSVTracer is a tracer that writes events as CSV rows. Rows are buffered
// until Flush is called or the buffer is full.
type CSVTracer struct {
	lock       sync.Mutex
	w          *csv.Writer
	seq        int
	buffered   int
	bufferSize int
}

// NewCSVTracer creates a CSVTracer and writes the header.
func NewCSVTracer(w io.Writer) *CSVTracer {
	t := &CSVTracer{
		w:          csv.NewWriter(w),
		bufferSize: 1000,
	}

	t.write([]string{"Seq", "Time", "Kind", "Actor", "Payload"})

	return t
}

// Record buffers the event.
func (t *CSVTracer) Record(e Event) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.write([]string{
		strconv.Itoa(t.seq),
		strconv.FormatFloat(float64(e.Time), 'f', 10, 64),
		e.Kind,
		e.Actor,
		e.Payload,
	})
	t.seq++

	t.buffered++
	if t.buffered >= t.bufferSize {
		t.flush()
	}
}

// Flush writes the buffered rows.
func (t *CSVTracer) Flush() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.flush()
}

func (t *CSVTracer) write(row []string) {
	err := t.w.Write(row)
	if err != nil {
		panic(err)
	}
}

func (t *CSVTracer) flush() {
	t.w.Flush()

	err := t.w.Error()
	if err != nil {
		panic(err)
	}

	t.buffered = 0
}
