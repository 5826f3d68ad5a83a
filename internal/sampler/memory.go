package sampler

import (
	"context"

	"codeberg.org/mutker/perfmon/internal/errors"
	"codeberg.org/mutker/perfmon/internal/report"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// MemoryUsage returns the process footprint and the device's physical
// memory. A failed footprint query reports zero used bytes; the total is
// queried regardless.
func (s *Sampler) MemoryUsage(ctx context.Context) report.MemoryUsage {
	var usage report.MemoryUsage

	used, err := s.memory.Footprint(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("Memory footprint unavailable")
	} else {
		usage.Used = used
	}

	total, err := s.memory.Physical(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("Physical memory unavailable")
	} else {
		usage.Total = total
	}

	return usage
}

// ProcessMemory reads the resident set of a process and the host's total
// memory through gopsutil.
type ProcessMemory struct {
	pid int32
}

// NewProcessMemory returns a reader for pid.
func NewProcessMemory(pid int32) *ProcessMemory {
	return &ProcessMemory{pid: pid}
}

func (m *ProcessMemory) Footprint(ctx context.Context) (uint64, error) {
	errFactory := errors.New()

	proc, err := process.NewProcessWithContext(ctx, m.pid)
	if err != nil {
		return 0, errFactory.Wrap(ErrFootprint, err)
	}

	info, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, errFactory.Wrap(ErrFootprint, err)
	}
	if info == nil {
		return 0, errFactory.New(ErrFootprint)
	}

	return info.RSS, nil
}

func (*ProcessMemory) Physical(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, errors.New().Wrap(ErrPhysicalMemory, err)
	}
	if vm == nil {
		return 0, errors.New().New(ErrPhysicalMemory)
	}

	return vm.Total, nil
}
