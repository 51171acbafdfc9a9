package tracing

import (
	"github.com/sirupsen/logrus"
)

// LogTracer writes events to a logger.
type LogTracer struct {
	logger *logrus.Logger
	levels map[string]logrus.Level
}

// NewLogTracer creates a LogTracer. Events are logged at the info level
// unless a level is set for their kind.
func NewLogTracer(logger *logrus.Logger) *LogTracer {
	return &LogTracer{
		logger: logger,
		levels: make(map[string]logrus.Level),
	}
}

// WithLevel sets the level of the events of a kind.
func (t *LogTracer) WithLevel(kind string, level logrus.Level) *LogTracer {
	t.levels[kind] = level
	return t
}

// Record logs the event. The virtual time goes in the vtime field, leaving
// the time field to the logger.
func (t *LogTracer) Record(e Event) {
	level, ok := t.levels[e.Kind]
	if !ok {
		level = logrus.InfoLevel
	}

	t.logger.WithFields(logrus.Fields{
		"vtime": float64(e.Time),
		"kind":  e.Kind,
		"actor": e.Actor,
	}).Log(level, e.Payload)
}
