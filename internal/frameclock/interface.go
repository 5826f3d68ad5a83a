// Package frameclock defines the per-refresh timestamp source the engine
// listens to, along with a ticker-backed source for hosts without a display
// link and a hand-driven source for tests.
package frameclock

// Handler receives one monotonic timestamp, in seconds, per frame.
type Handler func(timestamp float64)

// Clock delivers frame timestamps. It is silent until Activate and silent
// forever after Invalidate; an invalidated clock cannot be reactivated.
// Timestamps never decrease. All methods, and the handler, run on the
// owner's dispatch context.
type Clock interface {
	Bind(h Handler)
	Activate()
	Invalidate()
}

// Factory builds a fresh, inactive Clock.
type Factory func() Clock

type state int

const (
	idle state = iota
	active
	invalidated
)
