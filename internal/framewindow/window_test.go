package framewindow_test

import (
	"math/rand"
	"testing"

	"codeberg.org/mutker/perfmon/internal/framewindow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendEvictsOlderThanHorizon(t *testing.T) {
	w := framewindow.New(framewindow.Horizon)

	for _, ts := range []float64{0.0, 0.3, 0.6, 0.9, 1.2, 1.5} {
		w.Append(ts)
	}

	assert.Equal(t, 4, w.Count())
	latest, ok := w.Latest()
	require.True(t, ok)
	assert.Equal(t, 1.5, latest)
}

func TestFrameExactlyOneSecondOldIsRetained(t *testing.T) {
	w := framewindow.New(0)

	w.Append(0.0)
	w.Append(1.0)
	assert.Equal(t, 2, w.Count())

	w.Append(1.0000001)
	assert.Equal(t, 2, w.Count())
}

func TestEmptyWindow(t *testing.T) {
	w := framewindow.New(framewindow.Horizon)

	assert.Equal(t, 0, w.Count())
	_, ok := w.Latest()
	assert.False(t, ok)
}

func TestCountMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := framewindow.New(framewindow.Horizon)

	var seen []float64
	ts := 0.0
	for i := 0; i < 5000; i++ {
		ts += rng.Float64() * 0.05
		w.Append(ts)
		seen = append(seen, ts)

		want := 0
		for _, s := range seen {
			if ts-s <= framewindow.Horizon {
				want++
			}
		}
		require.Equal(t, want, w.Count(), "after appending %v", ts)
	}
}

func TestMemoryStaysBounded(t *testing.T) {
	w := framewindow.New(framewindow.Horizon)

	// 128Hz for ten minutes; 1/128 is exact in binary
	const rate = 128.0
	for i := 0; i < 128*600; i++ {
		w.Append(float64(i) / rate)
	}

	assert.Equal(t, 129, w.Count())
	assert.LessOrEqual(t, w.Capacity(), 256)
}

func TestGrowPreservesOrder(t *testing.T) {
	w := framewindow.New(framewindow.Horizon)

	// 1000 frames inside one second forces several doublings
	for i := 0; i < 1000; i++ {
		w.Append(float64(i) / 1000)
	}
	require.Equal(t, 1000, w.Count())

	w.Append(1.5)
	// retains timestamps >= 0.5
	assert.Equal(t, 501, w.Count())
}

func TestNonMonotonicInputStaysConsistent(t *testing.T) {
	w := framewindow.New(framewindow.Horizon)

	w.Append(5.0)
	w.Append(5.5)
	w.Append(2.0)
	assert.GreaterOrEqual(t, w.Count(), 0)
	assert.LessOrEqual(t, w.Count(), 3)

	for i := 0; i < 100; i++ {
		w.Append(10 + float64(i)*0.125)
	}
	// latest is 22.375, frames from 21.375 on survive
	assert.Equal(t, 9, w.Count())
}

func TestReset(t *testing.T) {
	w := framewindow.New(framewindow.Horizon)
	for i := 0; i < 500; i++ {
		w.Append(float64(i) / 1000)
	}

	w.Reset()

	assert.Equal(t, 0, w.Count())
	assert.Equal(t, 128, w.Capacity())
	w.Append(3)
	assert.Equal(t, 1, w.Count())
}
