package sampler

import "context"

// Thread is one live thread's accumulated processor usage.
type Thread struct {
	ID int32
	// Usage is the thread's processor time as a fraction of one core.
	Usage float64
	// Idle threads are skipped when summing usage.
	Idle bool
}

// ThreadList is an enumeration of the process's threads. It may hold OS
// resources and must be released exactly once by whoever obtained it.
type ThreadList interface {
	Len() int
	Info(i int) (Thread, error)
	Release()
}

// ThreadEnumerator lists the live threads of a process. When it returns an
// error alongside a non-nil list, the list must still be released.
type ThreadEnumerator interface {
	Threads(ctx context.Context) (ThreadList, error)
}

// MemoryReader reports the process footprint and the device's physical
// memory. The two queries are independent.
type MemoryReader interface {
	Footprint(ctx context.Context) (uint64, error)
	Physical(ctx context.Context) (uint64, error)
}

// ThermalSource reports the raw thermal pressure level of the device.
type ThermalSource interface {
	Level(ctx context.Context) (PressureLevel, error)
}
