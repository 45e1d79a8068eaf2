// Package loop provides the single UI event loop the control bar runs on.
//
// Work from other goroutines (mpv events, wall-clock timers) is posted into
// the loop and executed by whoever drains it, normally the ebiten Update
// call. Nothing posted to the loop ever runs concurrently with anything else
// posted to it.
package loop

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a pending delayed callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped it
	// before it ran.
	Stop() bool
}

// Scheduler runs delayed callbacks on the UI loop.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Loop is a queue of callbacks drained on the UI goroutine.
type Loop struct {
	mu    sync.Mutex
	queue []func()
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{}
}

// Post queues fn for the next Drain. Safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
}

// Drain runs every queued callback, including ones queued by the callbacks
// themselves, and returns how many ran.
func (l *Loop) Drain() int {
	ran := 0
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()
		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// AfterFunc schedules fn to be posted to the loop after d. A Stop that
// happens after the wall-clock timer fired but before the loop drained still
// prevents fn from running.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.stopped.CompareAndSwap(false, true)
}
