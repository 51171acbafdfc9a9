package tracing

import (
	"encoding/json"
	"io"
	"sync"
)

type jsonEvent struct {
	Seq     int     `json:"seq"`
	Time    float64 `json:"time"`
	Kind    string  `json:"kind"`
	Actor   string  `json:"actor"`
	Payload string  `json:"payload"`
}

// JSONTracer writes one JSON object per event and line.
type JSONTracer struct {
	lock sync.Mutex
	enc  *json.Encoder
	seq  int
}

// NewJSONTracer creates a new JSONTracer, injecting a writer as dependency.
func NewJSONTracer(w io.Writer) *JSONTracer {
	return &JSONTracer{enc: json.NewEncoder(w)}
}

// Record writes the event.
func (t *JSONTracer) Record(e Event) {
	t.lock.Lock()
	defer t.lock.Unlock()

	err := t.enc.Encode(jsonEvent{
		Seq:     t.seq,
		Time:    float64(e.Time),
		Kind:    e.Kind,
		Actor:   e.Actor,
		Payload: e.Payload,
	})
	if err != nil {
		panic(err)
	}

	t.seq++
}
