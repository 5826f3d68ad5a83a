// Package sampler takes point-in-time readings of the host process: processor
// usage across its threads, memory footprint, and device thermal pressure.
//
// Readings never fail. A back end that cannot answer degrades the reading
// (zero usage, zero footprint, unknown thermal state) and the failure is
// logged at debug level.
package sampler

import (
	"context"
	"io"
	"os"

	"codeberg.org/mutker/perfmon/internal/logger"
	"codeberg.org/mutker/perfmon/internal/report"
)

// Sampler combines the three back ends. Its methods are independent and
// safe to call in any order.
type Sampler struct {
	threads ThreadEnumerator
	memory  MemoryReader
	thermal ThermalSource
	log     logger.Logger
}

// New builds a Sampler from explicit back ends. A nil thermal source reports
// an unknown thermal state.
func New(threads ThreadEnumerator, memory MemoryReader, thermal ThermalSource) *Sampler {
	if thermal == nil {
		thermal = NoThermal{}
	}

	return &Sampler{
		threads: threads,
		memory:  memory,
		thermal: thermal,
		log:     logger.With("sampler"),
	}
}

// NewProcess builds a Sampler for the calling process.
func NewProcess(thermal ThermalSource) *Sampler {
	pid := int32(os.Getpid())

	return New(NewProcessThreads(pid), NewProcessMemory(pid), thermal)
}

// Close releases the thermal source if it holds resources.
func (s *Sampler) Close() error {
	if c, ok := s.thermal.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

// ThermalState maps the source's pressure level onto a report state.
// Unreadable or unrecognized levels yield ThermalUnknown.
func (s *Sampler) ThermalState(ctx context.Context) report.ThermalState {
	level, err := s.thermal.Level(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("Thermal level unavailable")
		return report.ThermalUnknown
	}

	return ThermalStateFromLevel(level)
}
