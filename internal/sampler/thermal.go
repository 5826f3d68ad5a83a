package sampler

import (
	"context"
	"strings"

	"codeberg.org/mutker/perfmon/internal/errors"
	"codeberg.org/mutker/perfmon/internal/report"
	"github.com/shirou/gopsutil/v3/host"
)

// PressureLevel is the raw thermal pressure reported by a source.
type PressureLevel int

const (
	PressureNominal PressureLevel = iota
	PressureFair
	PressureSerious
	PressureCritical

	// PressureUnrecognized is reported when no level can be determined.
	PressureUnrecognized PressureLevel = -1
)

// fairMargin is how far below its high threshold, in °C, a sensor starts
// counting as fair.
const fairMargin = 10.0

// DefinedPressureLevels lists every level a source may report other than
// PressureUnrecognized.
func DefinedPressureLevels() []PressureLevel {
	return []PressureLevel{PressureNominal, PressureFair, PressureSerious, PressureCritical}
}

// ThermalStateFromLevel maps any level, including values this build does not
// know, onto a report state.
func ThermalStateFromLevel(level PressureLevel) report.ThermalState {
	switch level {
	case PressureNominal:
		return report.ThermalNominal
	case PressureFair:
		return report.ThermalFair
	case PressureSerious:
		return report.ThermalSerious
	case PressureCritical:
		return report.ThermalCritical
	default:
		return report.ThermalUnknown
	}
}

// levelFromThresholds classifies a temperature against a sensor's high and
// critical thresholds. A zero threshold is treated as absent.
func levelFromThresholds(temp, high, critical float64) PressureLevel {
	if high <= 0 {
		high = critical
	}
	if high <= 0 {
		return PressureUnrecognized
	}

	switch {
	case critical > 0 && temp >= critical:
		return PressureCritical
	case temp >= high:
		return PressureSerious
	case temp >= high-fairMargin:
		return PressureFair
	default:
		return PressureNominal
	}
}

// worstLevel returns the most severe recognized level, or
// PressureUnrecognized if there is none.
func worstLevel(levels ...PressureLevel) PressureLevel {
	worst := PressureUnrecognized
	for _, l := range levels {
		if l == PressureUnrecognized {
			continue
		}
		if l > worst {
			worst = l
		}
	}

	return worst
}

// NoThermal is a source for hosts without thermal telemetry.
type NoThermal struct{}

func (NoThermal) Level(context.Context) (PressureLevel, error) {
	return PressureUnrecognized, nil
}

// SensorThermal derives thermal pressure from hardware sensors via gopsutil.
// The worst sensor wins.
type SensorThermal struct {
	read func(ctx context.Context) ([]host.TemperatureStat, error)
}

// NewSensorThermal returns a source reading the host's sensors.
func NewSensorThermal() *SensorThermal {
	return &SensorThermal{read: host.SensorsTemperaturesWithContext}
}

func (s *SensorThermal) Level(ctx context.Context) (PressureLevel, error) {
	temps, err := s.read(ctx)
	// gopsutil returns readable sensors together with warnings for the rest
	if len(temps) == 0 {
		if err != nil {
			return PressureUnrecognized, errors.New().Wrap(ErrThermalRead, err)
		}
		return PressureUnrecognized, nil
	}

	levels := make([]PressureLevel, 0, len(temps))
	for _, t := range temps {
		levels = append(levels, levelFromThresholds(t.Temperature, t.High, t.Critical))
	}

	return worstLevel(levels...), nil
}

// Thermal source names accepted by NewThermalSource.
const (
	ThermalSensors = "sensors"
	ThermalNVML    = "nvml"
	ThermalNone    = "none"
)

// NewThermalSource builds the named source.
func NewThermalSource(name string) (ThermalSource, error) {
	switch strings.ToLower(name) {
	case ThermalSensors:
		return NewSensorThermal(), nil
	case ThermalNVML:
		return NewGPUThermal(0)
	case ThermalNone, "":
		return NoThermal{}, nil
	default:
		return nil, errors.New().WithData(ErrUnknownThermals, name)
	}
}
