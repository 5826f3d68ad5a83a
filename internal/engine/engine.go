// Package engine turns a frame clock into periodic performance reports.
//
// Every frame lands in a one-second window used for the FPS figure. The same
// frame stream drives a coalescing throttle; each time it fires the engine
// samples the process and publishes a report. Sampling therefore follows
// rendering activity: when frames stop, so does sampling.
package engine

import (
	"context"
	"time"

	"codeberg.org/mutker/perfmon/internal/dispatch"
	"codeberg.org/mutker/perfmon/internal/framewindow"
	"codeberg.org/mutker/perfmon/internal/frameclock"
	"codeberg.org/mutker/perfmon/internal/logger"
	"codeberg.org/mutker/perfmon/internal/report"
	"codeberg.org/mutker/perfmon/internal/throttle"
)

// DefaultMeteringTime is the production interval used when none is
// configured.
const DefaultMeteringTime = 500 * time.Millisecond

// Sampler takes the resource readings that go into a report.
type Sampler interface {
	CPUUsage(ctx context.Context) float64
	MemoryUsage(ctx context.Context) report.MemoryUsage
	ThermalState(ctx context.Context) report.ThermalState
}

// Options configures an Engine.
type Options struct {
	MeteringTime time.Duration
	Sampler      Sampler
	Clock        frameclock.Factory
	// Publish receives every produced report on the queue's context.
	Publish func(report.Performance)
}

// Engine owns one frame window and one frame clock subscription. All methods
// must be called on the queue's context.
type Engine struct {
	queue    dispatch.Queue
	interval time.Duration
	sampler  Sampler
	newClock frameclock.Factory
	publish  func(report.Performance)
	log      logger.Logger

	clock    frameclock.Clock
	window   *framewindow.Window
	metering *throttle.Throttle[float64]
	active   bool
	produced uint64
}

// New builds an inactive engine.
func New(queue dispatch.Queue, opts Options) *Engine {
	if opts.MeteringTime <= 0 {
		opts.MeteringTime = DefaultMeteringTime
	}
	if opts.Publish == nil {
		opts.Publish = func(report.Performance) {}
	}

	e := &Engine{
		queue:    queue,
		interval: opts.MeteringTime,
		sampler:  opts.Sampler,
		newClock: opts.Clock,
		publish:  opts.Publish,
		log:      logger.With("engine"),
	}
	e.bind()

	return e
}

// bind wires a fresh window, metering throttle, and clock.
func (e *Engine) bind() {
	e.window = framewindow.New(framewindow.Horizon)
	e.metering = throttle.New(e.queue, e.interval, func(float64) {
		r := e.Collect(context.Background())
		e.produced++
		e.publish(r)
	})
	e.clock = e.newClock()
	e.clock.Bind(e.onFrame)
}

func (e *Engine) onFrame(ts float64) {
	e.window.Append(ts)
	e.metering.Send(ts)
}

// Resume activates the frame clock. Calling it while active does nothing.
func (e *Engine) Resume() {
	if e.active {
		return
	}
	e.active = true
	e.clock.Activate()
	e.log.Debug().Dur("metering_time", e.interval).Msg("Frame clock activated")
}

// Pause tears down the clock subscription and discards all frame history
// and any pending metering tick. The engine is rebuilt ready for the next
// Resume.
func (e *Engine) Pause() {
	e.clock.Invalidate()
	e.metering.Reset()
	e.active = false
	e.bind()
	e.log.Debug().Msg("Frame clock discarded")
}

// Active reports whether the clock is running.
func (e *Engine) Active() bool {
	return e.active
}

// FPS returns the number of frames seen in the last second.
func (e *Engine) FPS() int {
	return e.window.Count()
}

// Produced returns how many reports the engine has published.
func (e *Engine) Produced() uint64 {
	return e.produced
}

// Collect samples the process and assembles a report. Sampling is not
// interruptible; ctx is passed through to the sampler's back ends.
func (e *Engine) Collect(ctx context.Context) report.Performance {
	r := report.New(
		e.sampler.CPUUsage(ctx),
		e.sampler.MemoryUsage(ctx),
		e.FPS(),
		e.sampler.ThermalState(ctx),
	)

	e.log.Debug().
		Str("report", r.ID.String()).
		Float64("cpu", r.CPUUsage).
		Uint64("memory_used", r.Memory.Used).
		Int("fps", r.FPS).
		Stringer("thermal", r.Thermal).
		Msg("Report produced")

	return r
}
