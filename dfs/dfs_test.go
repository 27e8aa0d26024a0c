package dfs

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFramerateFallback(t *testing.T) {
	noop := func(uint32) error { return nil }

	require.Equal(t, 30.0, New(noop, 30.0, nil).framerate)
	require.Equal(t, fallbackFramerate, New(noop, 0, nil).framerate)
	require.Equal(t, fallbackFramerate, New(noop, -24.0, nil).framerate)
	require.Equal(t, fallbackFramerate, New(noop, math.NaN(), nil).framerate)
	require.Equal(t, fallbackFramerate, New(noop, math.Inf(1), nil).framerate)
}

func TestUpdateEMA(t *testing.T) {
	g := New(func(uint32) error { return nil }, 30.0, nil)

	// First sample seeds the average directly.
	g.Update(1000, 16000)
	require.InDelta(t, 2.0, g.decodeCycleEMA, 1e-9)

	// Later samples blend in with the damping factor.
	g.Update(1000, 32000)
	want := 0.1*4.0 + 0.9*2.0
	require.InDelta(t, want, g.decodeCycleEMA, 1e-9)

	require.Equal(t, uint32(2), g.numSamples)
	require.Equal(t, uint32(16000), g.bitrateSum)
}

func TestCommitBelowThreshold(t *testing.T) {
	calls := 0
	g := New(func(uint32) error { calls++; return nil }, 30.0, nil)

	for i := 0; i < samplesThreshold-1; i++ {
		g.Update(1000, 16000)
	}
	require.NoError(t, g.Commit())
	require.Equal(t, 0, calls)
	require.Equal(t, uint32(samplesThreshold-1), g.numSamples)
}

func TestCommitAppliesClock(t *testing.T) {
	var applied []uint32
	g := New(func(rate uint32) error { applied = append(applied, rate); return nil }, 30.0, nil)

	for i := 0; i < samplesThreshold; i++ {
		g.Update(1000, 16000)
	}
	g.samplingTS = time.Now().Add(-100 * time.Millisecond)
	require.NoError(t, g.Commit())

	// 10 samples over ~100ms is well inside 1.5x the 30fps frame time.
	require.Len(t, applied, 1)
	require.NotZero(t, applied[0])
	require.Equal(t, uint32(0), g.numSamples)
	require.Equal(t, uint32(0), g.bitrateSum)
	require.NotZero(t, g.lastTSDelta)
}

func TestCommitRejectsStalledWindow(t *testing.T) {
	calls := 0
	g := New(func(uint32) error { calls++; return nil }, 30.0, nil)

	for i := 0; i < samplesThreshold; i++ {
		g.Update(1000, 16000)
	}
	// Ten frames spread over ten seconds reads as a paused feed.
	g.samplingTS = time.Now().Add(-10 * time.Second)
	require.NoError(t, g.Commit())

	require.Equal(t, 0, calls)
	require.Equal(t, uint32(0), g.numSamples)
	require.Equal(t, int64(0), g.lastTSDelta)
}

func TestCommitAcceptsSteadySlowWindow(t *testing.T) {
	calls := 0
	g := New(func(uint32) error { calls++; return nil }, 30.0, nil)

	// A slow window matching the previous window delta is still steady
	// state and keeps the clock updated.
	g.lastTSDelta = (900 * time.Millisecond).Microseconds()
	for i := 0; i < samplesThreshold; i++ {
		g.Update(1000, 16000)
	}
	g.samplingTS = time.Now().Add(-1 * time.Second)
	require.NoError(t, g.Commit())

	require.Equal(t, 1, calls)
}

func TestCloseReleasesClock(t *testing.T) {
	var applied []uint32
	g := New(func(rate uint32) error { applied = append(applied, rate); return nil }, 30.0, nil)

	require.NoError(t, g.Close())
	require.Equal(t, []uint32{0}, applied)
}

func TestBuildStatsJSON(t *testing.T) {
	g := New(func(uint32) error { return nil }, 24.0, nil)
	g.Update(1000, 16000)

	buf, err := g.BuildStatsJSON()
	require.NoError(t, err)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(buf, &stats))
	require.Equal(t, 24.0, stats["framerate"])
	require.Equal(t, 2.0, stats["decode_cycles_ema"])
	require.Equal(t, 1.0, stats["num_samples"])
	require.Equal(t, 8000.0, stats["bitrate_sum"])
}
