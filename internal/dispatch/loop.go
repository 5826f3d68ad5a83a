package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is a goroutine-backed Queue. Post and AfterFunc may be called from any
// goroutine; callbacks run on the goroutine executing Run.
type Loop struct {
	start   time.Time
	mu      sync.Mutex
	pending []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

// NewLoop returns a Loop that does nothing until Run is called.
func NewLoop() *Loop {
	return &Loop{
		start: time.Now(),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Run executes posted work until ctx is cancelled. Work posted after Run
// returns is discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.closed = true
		l.pending = nil
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		l.drain()

		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			fn()
		}
	}
}

// Post queues fn to run on the loop. It is a no-op once Run has returned.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	l.Post(func() {
		fn()
		close(finished)
	})

	select {
	case <-finished:
		return nil
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Now returns the time elapsed since NewLoop.
func (l *Loop) Now() time.Duration {
	return time.Since(l.start)
}

// AfterFunc posts fn to the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.finished.Swap(true) {
				return
			}
			fn()
		})
	})

	return t
}

type loopTimer struct {
	timer    *time.Timer
	finished atomic.Bool
}

// Stop prevents the callback from running and reports whether it had not
// run yet.
func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return !t.finished.Swap(true)
}
