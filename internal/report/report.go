// Package report defines the immutable performance snapshot delivered to
// observers.
package report

import (
	"time"

	"github.com/google/uuid"
)

// Performance is one coalesced snapshot of the host process.
type Performance struct {
	ID uuid.UUID
	// CPUUsage is the sum of per-thread usage in percent of one core; it
	// exceeds 100 when several threads run concurrently.
	CPUUsage   float64
	Memory     MemoryUsage
	FPS        int
	Thermal    ThermalState
	CapturedAt time.Time
}

// New assembles a snapshot with a fresh identifier.
func New(cpu float64, memory MemoryUsage, fps int, thermal ThermalState) Performance {
	if cpu < 0 {
		cpu = 0
	}
	if fps < 0 {
		fps = 0
	}

	return Performance{
		ID:         uuid.New(),
		CPUUsage:   cpu,
		Memory:     memory,
		FPS:        fps,
		Thermal:    thermal,
		CapturedAt: time.Now(),
	}
}

// MemoryUsage holds byte counts. Used <= Total is expected but not enforced.
type MemoryUsage struct {
	Used  uint64
	Total uint64
}

// Ratio returns Used/Total, or 0 when Total is unknown.
func (m MemoryUsage) Ratio() float64 {
	if m.Total == 0 {
		return 0
	}

	return float64(m.Used) / float64(m.Total)
}
