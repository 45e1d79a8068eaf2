package loop

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by virtual time. Tests advance it explicitly
// instead of sleeping.
type Manual struct {
	now     time.Duration
	seq     int
	pending []*manualTimer
}

// NewManual returns a scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

type manualTimer struct {
	m   *Manual
	due time.Duration
	seq int
	fn  func()
}

func (t *manualTimer) Stop() bool {
	for i, p := range t.m.pending {
		if p == t {
			t.m.pending = append(t.m.pending[:i], t.m.pending[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTimer{m: m, due: m.now + d, seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration { return m.now }

// Pending returns the number of scheduled callbacks that have not run.
func (m *Manual) Pending() int { return len(m.pending) }

// Advance moves virtual time forward by d, running every callback that
// becomes due in deadline order. Callbacks scheduled while advancing run in
// the same call if they fall due within the window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now + d
	for {
		next := m.nextDue()
		if next == nil || next.due > end {
			break
		}
		next.Stop()
		m.now = next.due
		next.fn()
	}
	m.now = end
}

func (m *Manual) nextDue() *manualTimer {
	if len(m.pending) == 0 {
		return nil
	}
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].due == m.pending[j].due {
			return m.pending[i].seq < m.pending[j].seq
		}
		return m.pending[i].due < m.pending[j].due
	})
	return m.pending[0]
}
