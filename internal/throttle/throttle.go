// Package throttle implements a trailing-edge, latest-wins throttle bound to a
// dispatch queue.
package throttle

import (
	"time"

	"codeberg.org/mutker/perfmon/internal/dispatch"
)

// Stats counts values that passed through a Throttle.
type Stats struct {
	Received  uint64
	Emitted   uint64
	Coalesced uint64
}

// Throttle forwards at most one value per interval. The first value after an
// idle period opens an interval; later values inside it replace the pending
// one; when the interval closes the pending value is emitted and the throttle
// goes idle again.
//
// All methods must be called on the queue's context.
type Throttle[T any] struct {
	queue    dispatch.Queue
	interval time.Duration
	emit     func(T)

	pending    T
	hasPending bool
	timer      dispatch.Timer
	stats      Stats
}

// New returns an idle throttle that calls emit on the queue's context.
func New[T any](queue dispatch.Queue, interval time.Duration, emit func(T)) *Throttle[T] {
	return &Throttle[T]{
		queue:    queue,
		interval: interval,
		emit:     emit,
	}
}

// Send offers v for emission at the end of the current interval.
func (t *Throttle[T]) Send(v T) {
	t.stats.Received++
	if t.hasPending {
		t.stats.Coalesced++
	}
	t.pending = v
	t.hasPending = true

	if t.timer == nil {
		t.timer = t.queue.AfterFunc(t.interval, t.fire)
	}
}

// Reset closes the current interval without emitting.
func (t *Throttle[T]) Reset() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.hasPending {
		t.stats.Coalesced++
	}
	t.clear()
}

// Interval returns the configured interval.
func (t *Throttle[T]) Interval() time.Duration {
	return t.interval
}

// Stats returns the throttle's counters.
func (t *Throttle[T]) Stats() Stats {
	return t.stats
}

func (t *Throttle[T]) fire() {
	t.timer = nil
	if !t.hasPending {
		return
	}

	v := t.pending
	t.clear()
	t.stats.Emitted++
	t.emit(v)
}

func (t *Throttle[T]) clear() {
	var zero T
	t.pending = zero
	t.hasPending = false
}
