package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar counts how a group of ARQ sessions end.
type ProgressBar struct {
	lock      sync.Mutex
	id        string
	name      string
	startTime time.Time
	total     uint64
	succeeded uint64
	failed    uint64
}

// ProgressBarSnapshot is the state of a ProgressBar at one moment.
type ProgressBarSnapshot struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Succeeded  uint64    `json:"succeeded"`
	Failed     uint64    `json:"failed"`
	InProgress uint64    `json:"in_progress"`
}

// Finish counts one session as ended, successfully or not.
func (b *ProgressBar) Finish(success bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if success {
		b.succeeded++
	} else {
		b.failed++
	}
}

// Done tells if every session of the bar has ended.
func (b *ProgressBar) Done() bool {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.succeeded+b.failed >= b.total
}

// Snapshot copies the state of the bar.
func (b *ProgressBar) Snapshot() ProgressBarSnapshot {
	b.lock.Lock()
	defer b.lock.Unlock()

	s := ProgressBarSnapshot{
		ID:        b.id,
		Name:      b.name,
		StartTime: b.startTime,
		Total:     b.total,
		Succeeded: b.succeeded,
		Failed:    b.failed,
	}

	if ended := b.succeeded + b.failed; ended < b.total {
		s.InProgress = b.total - ended
	}

	return s
}
