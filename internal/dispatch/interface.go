// Package dispatch provides the single serial execution context the monitor
// runs on. Every callback handed to a Queue, including timer callbacks, runs
// on that context, so state owned by the monitor needs no locking.
package dispatch

import "time"

// Queue serializes work onto one logical context.
type Queue interface {
	// Post schedules fn to run on the queue's context.
	Post(fn func())
	// AfterFunc schedules fn on the queue's context once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
	// Now returns the queue's monotonic time since it was created.
	Now() time.Duration
}

// Timer is a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; false means it already fired or was stopped. Stop
	// must be called on the queue's context.
	Stop() bool
}
