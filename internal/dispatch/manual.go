package dispatch

import "time"

// Manual is a Queue driven by hand with virtual time. It runs work on the
// caller's goroutine inside Flush and Advance.
type Manual struct {
	now     time.Duration
	pending []func()
	timers  []*manualTimer
	seq     uint64
}

type manualTimer struct {
	at   time.Duration
	seq  uint64
	fn   func()
	done bool
}

// Stop cancels the timer and reports whether it was still pending.
func (t *manualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true

	return true
}

// NewManual returns a Manual queue at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Post queues fn for the next Flush or Advance.
func (m *Manual) Post(fn func()) {
	m.pending = append(m.pending, fn)
}

// AfterFunc schedules fn at virtual time Now()+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{at: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)

	return t
}

// Now returns the current virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Flush runs posted work, including work posted while flushing.
func (m *Manual) Flush() {
	for len(m.pending) > 0 {
		fn := m.pending[0]
		m.pending = m.pending[1:]
		fn()
	}
}

// Advance moves virtual time forward by d, firing due timers in deadline
// order and flushing posted work after each one.
func (m *Manual) Advance(d time.Duration) {
	m.AdvanceTo(m.now + d)
}

// AdvanceTo moves virtual time to target. Moving backwards only flushes.
func (m *Manual) AdvanceTo(target time.Duration) {
	m.Flush()
	for {
		t := m.next(target)
		if t == nil {
			break
		}
		m.now = t.at
		t.done = true
		t.fn()
		m.Flush()
	}
	if target > m.now {
		m.now = target
	}
}

// Pending reports the number of timers that have not fired or been stopped.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.done {
			n++
		}
	}

	return n
}

func (m *Manual) next(target time.Duration) *manualTimer {
	var best *manualTimer
	live := m.timers[:0]
	for _, t := range m.timers {
		if t.done {
			continue
		}
		live = append(live, t)
		if t.at > target {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	m.timers = live

	return best
}
