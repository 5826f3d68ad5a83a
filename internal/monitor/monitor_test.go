package monitor_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"codeberg.org/mutker/perfmon/internal/dispatch"
	"codeberg.org/mutker/perfmon/internal/errors"
	"codeberg.org/mutker/perfmon/internal/frameclock"
	"codeberg.org/mutker/perfmon/internal/monitor"
	"codeberg.org/mutker/perfmon/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSampler struct{}

func (stubSampler) CPUUsage(context.Context) float64 { return 12.5 }

func (stubSampler) MemoryUsage(context.Context) report.MemoryUsage {
	return report.MemoryUsage{Used: 1 << 20, Total: 1 << 30}
}

func (stubSampler) ThermalState(context.Context) report.ThermalState {
	return report.ThermalNominal
}

const rate = 64.0

type harness struct {
	q         *dispatch.Manual
	src       *frameclock.ManualSource
	m         *monitor.Monitor
	delivered []report.Performance
}

func newHarness(t *testing.T, metering, throttle time.Duration) *harness {
	t.Helper()

	h := &harness{q: dispatch.NewManual(), src: &frameclock.ManualSource{}}
	m, err := monitor.New(h.q, monitor.Options{
		MeteringTime: metering,
		Throttle:     throttle,
		Sampler:      stubSampler{},
		Clock:        h.src.Factory(),
	})
	require.NoError(t, err)
	h.m = m
	m.Reports().Subscribe(func(r report.Performance) { h.delivered = append(h.delivered, r) })

	return h
}

// frames drives the current clock at 64Hz over [from, to) seconds.
func (h *harness) frames(from, to float64) {
	for k := int(from * rate); float64(k)/rate < to; k++ {
		ts := float64(k) / rate
		h.q.AdvanceTo(seconds(ts))
		h.src.Tick(ts)
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := monitor.New(dispatch.NewManual(), monitor.Options{})
	assert.True(t, errors.HasCode(err, errors.ErrInvalidArgument))
}

func TestStartsPausedAndDeliversNothing(t *testing.T) {
	h := newHarness(t, 500*time.Millisecond, 500*time.Millisecond)

	assert.Equal(t, monitor.Paused, h.m.State())
	h.frames(0, 3)
	h.q.Advance(5 * time.Second)

	_, ok := h.m.Reports().Latest()
	assert.False(t, ok)
	assert.Empty(t, h.delivered)
}

func TestResumeTwiceEqualsResumeOnce(t *testing.T) {
	once := newHarness(t, 500*time.Millisecond, 500*time.Millisecond)
	twice := newHarness(t, 500*time.Millisecond, 500*time.Millisecond)

	once.m.Resume()
	twice.m.Resume()
	twice.m.Resume()

	once.frames(0, 4)
	twice.frames(0, 4)

	assert.Equal(t, monitor.Active, twice.m.State())
	assert.Equal(t, once.src.Built(), twice.src.Built())
	require.Equal(t, len(once.delivered), len(twice.delivered))
	for i := range once.delivered {
		assert.Equal(t, once.delivered[i].FPS, twice.delivered[i].FPS)
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	h := newHarness(t, 500*time.Millisecond, 500*time.Millisecond)

	h.m.Pause()
	assert.Equal(t, 1, h.src.Built())

	h.m.Resume()
	h.m.Pause()
	h.m.Pause()
	assert.Equal(t, 2, h.src.Built())
	assert.Equal(t, monitor.Paused, h.m.State())
}

func TestDeliveredReportBecomesLatest(t *testing.T) {
	h := newHarness(t, 500*time.Millisecond, 500*time.Millisecond)
	h.m.Resume()

	h.frames(0, 2)

	require.NotEmpty(t, h.delivered)
	latest, ok := h.m.Reports().Latest()
	require.True(t, ok)
	assert.Equal(t, h.delivered[len(h.delivered)-1].ID, latest.ID)
	assert.Equal(t, 12.5, latest.CPUUsage)
}

func TestInFlightReportDroppedAfterPause(t *testing.T) {
	h := newHarness(t, 500*time.Millisecond, 500*time.Millisecond)
	h.m.Resume()

	// engine produces at 0.5s, the bus would deliver it at 1.0s
	h.frames(0, 0.75)
	require.Equal(t, uint64(1), h.m.Stats().Produced)
	h.m.Pause()

	h.q.Advance(2 * time.Second)

	assert.Empty(t, h.delivered)
	stats := h.m.Stats()
	assert.Equal(t, uint64(1), stats.Discarded)
	assert.Equal(t, uint64(0), stats.Delivered)
}

func TestQuickResumeDeliversReportProducedBeforePause(t *testing.T) {
	h := newHarness(t, 500*time.Millisecond, 500*time.Millisecond)
	h.m.Resume()

	// engine produces at 0.5s, the bus holds it until 1.0s
	h.frames(0, 0.75)
	h.m.Pause()
	h.m.Resume()

	h.q.AdvanceTo(seconds(1.0))

	require.Len(t, h.delivered, 1)
	assert.InDelta(t, 32, h.delivered[0].FPS, 1)
	stats := h.m.Stats()
	assert.Equal(t, uint64(1), stats.Produced)
	assert.Equal(t, uint64(1), stats.Delivered)
	assert.Equal(t, uint64(0), stats.Discarded)
}

func TestFramesBeforePauseDoNotCountAfterResume(t *testing.T) {
	h := newHarness(t, 500*time.Millisecond, 500*time.Millisecond)
	h.m.Resume()
	h.frames(0, 0.9)

	h.m.Pause()
	h.q.AdvanceTo(seconds(1.1))
	before := len(h.delivered)
	h.m.Resume()

	h.frames(1.1, 1.35)
	h.q.Advance(2 * time.Second)

	require.Greater(t, len(h.delivered), before)
	for _, r := range h.delivered[before:] {
		assert.LessOrEqual(t, r.FPS, 16)
	}
}

func TestCadenceComposition(t *testing.T) {
	const duration = 10.0

	tests := []struct {
		metering, throttle time.Duration
	}{
		{500 * time.Millisecond, 500 * time.Millisecond},
		{250 * time.Millisecond, time.Second},
		{time.Second, 250 * time.Millisecond},
		{300 * time.Millisecond, 700 * time.Millisecond},
		{100 * time.Millisecond, 100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v_%v", tt.metering, tt.throttle), func(t *testing.T) {
			h := newHarness(t, tt.metering, tt.throttle)
			h.m.Resume()

			h.frames(0, duration)
			h.q.AdvanceTo(seconds(duration))

			slowest := max(tt.metering, tt.throttle)
			bound := int(seconds(duration)/slowest) + 1
			assert.LessOrEqual(t, len(h.delivered), bound)
			assert.NotEmpty(t, h.delivered)
		})
	}
}

func TestTogglePresentationBroadcasts(t *testing.T) {
	h := newHarness(t, 500*time.Millisecond, 500*time.Millisecond)
	gauges, menu := 0, 0

	h.m.PresentationToggle().Subscribe(func() { gauges++ })
	h.m.PresentationToggle().Subscribe(func() { menu++ })

	h.m.TogglePresentation()
	shake := h.m.TogglePresentationAction()
	shake()

	assert.Equal(t, 2, gauges)
	assert.Equal(t, 2, menu)
}

func TestCloseStopsEverything(t *testing.T) {
	h := newHarness(t, 500*time.Millisecond, 500*time.Millisecond)
	h.m.Resume()
	h.frames(0, 1.2)
	delivered := len(h.delivered)

	require.NoError(t, h.m.Close())
	require.NoError(t, h.m.Close())

	h.m.Resume()
	assert.Equal(t, monitor.Paused, h.m.State())
	h.frames(1.2, 3)
	h.q.Advance(2 * time.Second)

	assert.Len(t, h.delivered, delivered)
	assert.Equal(t, 0, h.m.Stats().Bus.Subscribers)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "paused", monitor.Paused.String())
	assert.Equal(t, "active", monitor.Active.String())
}
