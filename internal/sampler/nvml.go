package sampler

import (
	"context"

	"codeberg.org/mutker/perfmon/internal/errors"
	"codeberg.org/mutker/perfmon/internal/logger"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// nvmlError represents an NVML-specific error
type nvmlError struct {
	ret nvml.Return
}

func (e nvmlError) Error() string {
	return nvml.ErrorString(e.ret)
}

// newNVMLError creates an error from an NVML return code
func newNVMLError(ret nvml.Return) error {
	if ret == nvml.SUCCESS {
		return nil
	}
	return &nvmlError{ret: ret}
}

// GPUThermal reports thermal pressure of an NVIDIA GPU, comparing its core
// temperature with the driver's slowdown and shutdown thresholds. It owns
// the NVML session and must be closed.
type GPUThermal struct {
	device   nvml.Device
	slowdown uint32
	shutdown uint32
}

// NewGPUThermal initializes NVML and opens the device at index.
func NewGPUThermal(index int) (*GPUThermal, error) {
	errFactory := errors.New()

	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, errFactory.Wrap(ErrNVMLInit, newNVMLError(ret))
	}

	device, ret := nvml.DeviceGetHandleByIndex(index)
	if ret != nvml.SUCCESS {
		nvml.Shutdown()
		return nil, errFactory.Wrap(ErrNVMLDevice, newNVMLError(ret))
	}

	g := &GPUThermal{device: device}

	log := logger.With("sampler")
	if name, ret := device.GetName(); ret == nvml.SUCCESS {
		log.Info().Msgf("Detected GPU: %v", name)
	}

	// Missing thresholds degrade to an unrecognized level rather than failing.
	if g.slowdown, ret = device.GetTemperatureThreshold(nvml.TEMPERATURE_THRESHOLD_SLOWDOWN); ret != nvml.SUCCESS {
		log.Debug().Msgf("Failed to get slowdown threshold: %v", nvml.ErrorString(ret))
		g.slowdown = 0
	}
	if g.shutdown, ret = device.GetTemperatureThreshold(nvml.TEMPERATURE_THRESHOLD_SHUTDOWN); ret != nvml.SUCCESS {
		log.Debug().Msgf("Failed to get shutdown threshold: %v", nvml.ErrorString(ret))
		g.shutdown = 0
	}

	log.Debug().
		Uint32("slowdown_threshold", g.slowdown).
		Uint32("shutdown_threshold", g.shutdown).
		Msg("GPU thermal thresholds")

	return g, nil
}

func (g *GPUThermal) Level(context.Context) (PressureLevel, error) {
	temp, ret := g.device.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		return PressureUnrecognized, errors.New().Wrap(ErrThermalRead, newNVMLError(ret))
	}

	return levelFromThresholds(float64(temp), float64(g.slowdown), float64(g.shutdown)), nil
}

func (g *GPUThermal) Close() error {
	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		return errors.New().Wrap(ErrNVMLShutdown, newNVMLError(ret))
	}

	return nil
}
