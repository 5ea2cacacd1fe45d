package session

import (
	"context"
	"sync"
	"time"
)

// Timer is a handle to one scheduled callback.
type Timer interface {
	// Stop cancels the callback. Returns false if it already fired or was stopped.
	Stop() bool
}

// Scheduler runs a callback once after a delay. Implementations must
// deliver the callback on the same serialized context that calls the
// session, so the session never needs a lock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Loop is a single-goroutine actor. Every session command and every fired
// timer callback goes through its queue, so they never interleave.
type Loop struct {
	cmds     chan func()
	done     chan struct{}
	doneOnce sync.Once
}

// NewLoop creates a loop with the given queue size.
func NewLoop(queueSize int) *Loop {
	if queueSize < 1 {
		queueSize = 64
	}
	return &Loop{
		cmds: make(chan func(), queueSize),
		done: make(chan struct{}),
	}
}

// Run processes queued functions until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.Close()
			return
		case <-l.done:
			return
		case f := <-l.cmds:
			f()
		}
	}
}

// Do queues f. Returns false if the loop has stopped.
// Must not be called from inside the loop when the queue may be full.
func (l *Loop) Do(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.cmds <- f:
		return true
	case <-l.done:
		return false
	}
}

// Call queues f and waits until it has run.
func (l *Loop) Call(f func()) bool {
	finished := make(chan struct{})
	if !l.Do(func() {
		defer close(finished)
		f()
	}) {
		return false
	}

	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// AfterFunc implements Scheduler: f is queued on the loop when d elapses.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() {
		l.Do(f)
	})
}

// Done returns a channel that closes when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Close stops the loop. Safe to call multiple times.
func (l *Loop) Close() {
	l.doneOnce.Do(func() {
		close(l.done)
	})
}

var _ Scheduler = (*Loop)(nil)
