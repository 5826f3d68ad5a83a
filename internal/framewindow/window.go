// Package framewindow counts frame timestamps inside a trailing time horizon.
package framewindow

const (
	// Horizon is the default retention horizon in seconds.
	Horizon = 1.0

	// initialCapacity covers one second at 120Hz without growing.
	initialCapacity = 128
)

// Window is a FIFO of frame timestamps backed by a ring buffer. A timestamp
// is retained while latest-ts <= horizon; it is evicted once the difference
// is strictly greater.
//
// Window is not safe for concurrent use.
type Window struct {
	horizon float64
	buf     []float64
	head    int
	count   int
}

// New returns an empty window retaining timestamps within horizon seconds of
// the most recent one. A non-positive horizon selects Horizon.
func New(horizon float64) *Window {
	if horizon <= 0 {
		horizon = Horizon
	}

	return &Window{
		horizon: horizon,
		buf:     make([]float64, initialCapacity),
	}
}

// Append records a frame at timestamp ts (seconds) and evicts every frame
// older than the horizon measured from ts.
func (w *Window) Append(ts float64) {
	if w.count == len(w.buf) {
		w.grow()
	}

	w.buf[(w.head+w.count)%len(w.buf)] = ts
	w.count++

	for w.count > 0 && ts-w.buf[w.head] > w.horizon {
		w.head = (w.head + 1) % len(w.buf)
		w.count--
	}
}

// Count returns the number of retained frames.
func (w *Window) Count() int {
	return w.count
}

// Latest returns the most recently appended timestamp.
func (w *Window) Latest() (float64, bool) {
	if w.count == 0 {
		return 0, false
	}

	return w.buf[(w.head+w.count-1)%len(w.buf)], true
}

// Reset drops every retained frame and releases grown capacity.
func (w *Window) Reset() {
	if len(w.buf) > initialCapacity {
		w.buf = make([]float64, initialCapacity)
	}
	w.head = 0
	w.count = 0
}

// Capacity reports the current size of the backing buffer.
func (w *Window) Capacity() int {
	return len(w.buf)
}

func (w *Window) grow() {
	next := make([]float64, len(w.buf)*2)
	for i := 0; i < w.count; i++ {
		next[i] = w.buf[(w.head+i)%len(w.buf)]
	}
	w.buf = next
	w.head = 0
}
