package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/perfmon/internal/config"
	"codeberg.org/mutker/perfmon/internal/dispatch"
	"codeberg.org/mutker/perfmon/internal/errors"
	"codeberg.org/mutker/perfmon/internal/frameclock"
	"codeberg.org/mutker/perfmon/internal/logger"
	"codeberg.org/mutker/perfmon/internal/monitor"
	"codeberg.org/mutker/perfmon/internal/pid"
	"codeberg.org/mutker/perfmon/internal/report"
	"codeberg.org/mutker/perfmon/internal/sampler"
)

const shutdownTimeout = 2 * time.Second

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	logger.Init(level, logger.IsService())
	logger.Debug().
		Dur("metering_time", cfg.MeteringTime).
		Dur("throttle", cfg.Throttle).
		Int("refresh_rate", cfg.RefreshRate).
		Str("thermal_source", cfg.ThermalSource).
		Msg("Config loaded")
}

func main() {
	if err := run(); err != nil {
		if coded, ok := err.(errors.Error); ok {
			logger.FatalWithCode(coded).Msg("perfmon stopped")
		}
		logger.Fatal().Err(err).Msg("perfmon stopped")
	}
}

func run() error {
	pidFile := pid.New(cfg.PIDFile)
	if err := pidFile.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pidFile.Remove(); err != nil {
			logger.Warn().Err(err).Msg("failed to remove PID file")
		}
	}()
	logger.Info().Str("pid_file", pidFile.Path()).Msg("Send SIGUSR1 to toggle the monitor")

	thermal, err := sampler.NewThermalSource(cfg.ThermalSource)
	if err != nil {
		logger.Warn().Err(err).Str("source", cfg.ThermalSource).Msg("Thermal source unavailable, reporting unknown")
		thermal = sampler.NoThermal{}
	}

	procSampler := sampler.NewProcess(thermal)
	defer func() {
		if err := procSampler.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to release thermal source")
		}
	}()

	loop := dispatch.NewLoop()
	mon, err := monitor.New(loop, monitor.Options{
		MeteringTime: cfg.MeteringTime,
		Throttle:     cfg.Throttle,
		Sampler:      procSampler,
		Clock:        frameclock.TickerFactory(loop, cfg.RefreshRate),
	})
	if err != nil {
		return errors.New().Wrap(errors.ErrInitApp, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop.Post(func() { wire(mon) })

	go handleSignals(ctx, cancel, loop, mon)

	if err := loop.Run(ctx); err != nil {
		return errors.New().Wrap(errors.ErrMainLoop, err)
	}

	logger.Info().Msg("Exiting...")

	return nil
}

// wire attaches the report log and the visibility toggle, then starts
// metering. Runs on the loop.
func wire(mon *monitor.Monitor) {
	mon.Reports().Subscribe(logReport)

	visible := true
	mon.PresentationToggle().Subscribe(func() {
		visible = !visible
		if visible {
			mon.Resume()
		} else {
			mon.Pause()
		}
		logger.Info().Bool("visible", visible).Msg("Presentation toggled")
	})

	mon.Resume()
}

func handleSignals(ctx context.Context, cancel context.CancelFunc, loop *dispatch.Loop, mon *monitor.Monitor) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)
	defer signal.Stop(sigs)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigs:
			if sig == syscall.SIGUSR1 {
				loop.Post(mon.TogglePresentationAction())
				continue
			}

			logger.Info().Msg("Received termination signal.")
			shutdown(loop, mon)
			cancel()

			return
		}
	}
}

func shutdown(loop *dispatch.Loop, mon *monitor.Monitor) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var (
		closeErr error
		stats    monitor.Stats
	)
	if err := loop.Do(ctx, func() {
		closeErr = mon.Close()
		stats = mon.Stats()
	}); err != nil {
		logger.Warn().Err(err).Msg("monitor did not close in time")
		return
	}
	if closeErr != nil {
		logger.Error().Err(closeErr).Msg("failed to close monitor")
		return
	}

	logger.Info().
		Uint64("produced", stats.Produced).
		Uint64("delivered", stats.Delivered).
		Uint64("discarded", stats.Discarded).
		Uint64("coalesced", stats.Bus.Coalesced).
		Msg("Monitor closed")
}

func logReport(r report.Performance) {
	logger.Info().
		Str("id", r.ID.String()).
		Int("fps", r.FPS).
		Float64("cpu", r.CPUUsage).
		Uint64("mem_used", r.Memory.Used).
		Uint64("mem_total", r.Memory.Total).
		Float64("mem_ratio", r.Memory.Ratio()).
		Str("thermal", r.Thermal.String()).
		Msg("Performance report")
}
