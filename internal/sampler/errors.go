package sampler

import "codeberg.org/mutker/perfmon/internal/errors"

const (
	// Thread accounting
	ErrThreadEnumeration = errors.ErrorCode("sampler_thread_enumeration_failed")
	ErrThreadInfo        = errors.ErrorCode("sampler_thread_info_failed")

	// Memory accounting
	ErrFootprint      = errors.ErrorCode("sampler_footprint_failed")
	ErrPhysicalMemory = errors.ErrorCode("sampler_physical_memory_failed")

	// Thermal sources
	ErrThermalRead     = errors.ErrorCode("sampler_thermal_read_failed")
	ErrNVMLInit        = errors.ErrorCode("sampler_nvml_init_failed")
	ErrNVMLDevice      = errors.ErrorCode("sampler_nvml_device_failed")
	ErrNVMLShutdown    = errors.ErrorCode("sampler_nvml_shutdown_failed")
	ErrUnknownThermals = errors.ErrorCode("sampler_unknown_thermal_source")
)
