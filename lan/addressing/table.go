// Package addressing provides the table that a switch uses to remember which
// connection leads to which device.
package addressing

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sarchlab/linksim/sim"
)

// An Entry records that Device was last seen on Connection.
type Entry struct {
	Device     string
	Connection string
	LearnedAt  sim.VTimeInSec
}

func (e Entry) String() string {
	return fmt.Sprintf("%s -> %s @ %.6f", e.Device, e.Connection, e.LearnedAt)
}

// Table maps device names to connection names.
type Table interface {
	// Learn records that device sent a frame through conn at time now. An
	// existing entry is overwritten and its age is reset.
	Learn(device, conn string, now sim.VTimeInSec)

	// Lookup returns the connection that leads to device. Expired entries
	// are purged and reported as not found.
	Lookup(device string, now sim.VTimeInSec) (string, bool)

	// Forget removes the entry of device.
	Forget(device string)

	// ForgetConnection removes every entry that points to conn.
	ForgetConnection(conn string) int

	// Entries returns a snapshot of all the entries, sorted by device name.
	Entries() []Entry

	// Len returns the number of entries, including expired ones that have
	// not been purged yet.
	Len() int
}

type table struct {
	lock sync.RWMutex

	entries   map[string]*entry
	agingTime sim.VTimeInSec
	capacity  int
	nextSeq   uint64
}

type entry struct {
	Entry
	seq uint64
}

func (t *table) Learn(device, conn string, now sim.VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.nextSeq++

	e, found := t.entries[device]
	if found {
		e.Connection = conn
		e.LearnedAt = now
		e.seq = t.nextSeq

		return
	}

	if t.capacity > 0 && len(t.entries) >= t.capacity {
		t.purgeExpired(now)
	}

	if t.capacity > 0 && len(t.entries) >= t.capacity {
		t.evictLeastRecentlyLearned()
	}

	t.entries[device] = &entry{
		Entry: Entry{
			Device:     device,
			Connection: conn,
			LearnedAt:  now,
		},
		seq: t.nextSeq,
	}
}

func (t *table) Lookup(device string, now sim.VTimeInSec) (string, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()

	e, found := t.entries[device]
	if !found {
		return "", false
	}

	if t.expired(e, now) {
		delete(t.entries, device)
		return "", false
	}

	return e.Connection, true
}

func (t *table) Forget(device string) {
	t.lock.Lock()
	defer t.lock.Unlock()

	delete(t.entries, device)
}

func (t *table) ForgetConnection(conn string) int {
	t.lock.Lock()
	defer t.lock.Unlock()

	removed := 0
	for device, e := range t.entries {
		if e.Connection == conn {
			delete(t.entries, device)
			removed++
		}
	}

	return removed
}

func (t *table) Entries() []Entry {
	t.lock.RLock()
	defer t.lock.RUnlock()

	list := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		list = append(list, e.Entry)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Device < list[j].Device
	})

	return list
}

func (t *table) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return len(t.entries)
}

func (t *table) expired(e *entry, now sim.VTimeInSec) bool {
	if t.agingTime <= 0 {
		return false
	}

	return now-e.LearnedAt > t.agingTime
}

func (t *table) purgeExpired(now sim.VTimeInSec) {
	for device, e := range t.entries {
		if t.expired(e, now) {
			delete(t.entries, device)
		}
	}
}

func (t *table) evictLeastRecentlyLearned() {
	var victim *entry

	for _, e := range t.entries {
		if victim == nil || e.seq < victim.seq {
			victim = e
		}
	}

	if victim != nil {
		delete(t.entries, victim.Device)
	}
}
