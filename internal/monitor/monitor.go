// Package monitor owns the metrics engine and its report subscription and
// gates delivery on an active/paused lifecycle.
package monitor

import (
	"time"

	"codeberg.org/mutker/perfmon/internal/bus"
	"codeberg.org/mutker/perfmon/internal/dispatch"
	"codeberg.org/mutker/perfmon/internal/engine"
	"codeberg.org/mutker/perfmon/internal/errors"
	"codeberg.org/mutker/perfmon/internal/frameclock"
	"codeberg.org/mutker/perfmon/internal/logger"
	"codeberg.org/mutker/perfmon/internal/observe"
	"codeberg.org/mutker/perfmon/internal/report"
)

// State is the monitor's lifecycle state.
type State int

const (
	Paused State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}

	return "paused"
}

// Options configures a Monitor. Zero intervals select the engine's and bus's
// defaults.
type Options struct {
	MeteringTime time.Duration
	Throttle     time.Duration
	Sampler      engine.Sampler
	Clock        frameclock.Factory
}

// Stats summarizes report flow through the monitor.
type Stats struct {
	State     State
	Produced  uint64
	Delivered uint64
	Discarded uint64
	Bus       bus.Stats
}

// Monitor is the lifecycle controller. It starts paused. Reports reaching
// its bus subscription while paused are dropped, so a report that was in
// flight when Pause was called never reaches observers.
//
// All methods must be called on the queue's context; hosts on other
// goroutines should go through dispatch.Loop.Post or Do.
type Monitor struct {
	state   State
	engine  *engine.Engine
	bus     *bus.Bus
	sub     bus.ID
	reports observe.Value[report.Performance]
	toggle  observe.Signal
	log     logger.Logger

	delivered uint64
	discarded uint64
	closed    bool
}

// New wires engine and bus and returns a paused monitor.
func New(queue dispatch.Queue, opts Options) (*Monitor, error) {
	errFactory := errors.New()

	if opts.Sampler == nil || opts.Clock == nil {
		return nil, errFactory.WithMessage(errors.ErrInvalidArgument, "monitor needs a sampler and a frame clock")
	}

	m := &Monitor{
		state: Paused,
		bus:   bus.New(queue, opts.Throttle),
		log:   logger.With("monitor"),
	}
	m.engine = engine.New(queue, engine.Options{
		MeteringTime: opts.MeteringTime,
		Sampler:      opts.Sampler,
		Clock:        opts.Clock,
		Publish:      m.bus.Publish,
	})

	sub, err := m.bus.Subscribe(m.receive)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInitFailed, err)
	}
	m.sub = sub

	return m, nil
}

// Resume starts metering. It does nothing while already active or after
// Close.
func (m *Monitor) Resume() {
	if m.closed || m.state == Active {
		return
	}
	m.state = Active
	m.engine.Resume()
	m.log.Info().Msg("Monitoring resumed")
}

// Pause stops metering and resets all frame history. It does nothing while
// already paused.
func (m *Monitor) Pause() {
	if m.state == Paused {
		return
	}
	m.state = Paused
	m.engine.Pause()
	m.log.Info().Msg("Monitoring paused")
}

// State returns the current lifecycle state.
func (m *Monitor) State() State {
	return m.state
}

// Reports exposes the last delivered report and its change notifications.
func (m *Monitor) Reports() *observe.Value[report.Performance] {
	return &m.reports
}

// PresentationToggle is the channel on which visibility toggle requests are
// broadcast.
func (m *Monitor) PresentationToggle() *observe.Signal {
	return &m.toggle
}

// TogglePresentation broadcasts a visibility toggle request.
func (m *Monitor) TogglePresentation() {
	m.toggle.Emit()
}

// TogglePresentationAction returns TogglePresentation as a plain callback
// for triggers that should not depend on the monitor type.
func (m *Monitor) TogglePresentationAction() func() {
	return m.TogglePresentation
}

// Stats returns report flow counters.
func (m *Monitor) Stats() Stats {
	return Stats{
		State:     m.state,
		Produced:  m.engine.Produced(),
		Delivered: m.delivered,
		Discarded: m.discarded,
		Bus:       m.bus.Stats(),
	}
}

// Close pauses the monitor and tears down its bus subscription. A closed
// monitor cannot be resumed.
func (m *Monitor) Close() error {
	if m.closed {
		return nil
	}
	m.Pause()
	m.closed = true

	err := m.bus.Unsubscribe(m.sub)
	m.bus.Close()
	if err != nil {
		return errors.New().Wrap(errors.ErrShutdownFailed, err)
	}

	return nil
}

func (m *Monitor) receive(r report.Performance) {
	if m.state != Active {
		m.discarded++
		m.log.Debug().Str("report", r.ID.String()).Msg("Report discarded while paused")
		return
	}

	m.delivered++
	m.reports.Set(r)
}
