// Package dfs scales an engine clock to the observed decode workload.
// Frame samples carry the bitstream size and the decode cycles reported by
// the engine microcode; the governor keeps an exponential moving average of
// cycles per bit and periodically derives a clock target from the wall-time
// bitrate.
package dfs

import (
	"math"
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"
)

const (
	// samplesThreshold is the minimum window size before a commit acts.
	samplesThreshold = 10
	// defaultDamping for the cycles-per-bit moving average.
	defaultDamping = 0.1
	// headroom scales the derived clock above the bare estimate.
	headroom = 1.2
	// fallbackFramerate applies when the stream carries no usable rate.
	fallbackFramerate = 10.0
)

// SetClockFunc applies a clock target in Hz.
type SetClockFunc func(rate uint32) error

// Governor derives engine clock targets from decode workload samples. Not
// safe for concurrent use.
type Governor struct {
	setClock SetClockFunc
	log      *slog.Logger

	framerate      float64
	decodeCycleEMA float64
	damping        float64

	numSamples  uint32
	bitrateSum  uint32
	samplingTS  time.Time
	lastTSDelta int64
}

// New returns a governor that applies targets through setClock. Framerates
// below 0.1 or non-finite fall back to a conservative default.
func New(setClock SetClockFunc, framerate float64, log *slog.Logger) *Governor {
	if log == nil {
		log = slog.Default()
	}
	if !(framerate >= 0.1) || math.IsInf(framerate, 0) {
		framerate = fallbackFramerate
	}
	return &Governor{
		setClock:   setClock,
		log:        log,
		framerate:  framerate,
		damping:    defaultDamping,
		samplingTS: time.Now(),
	}
}

// SetDamping overrides the moving average damping factor.
func (g *Governor) SetDamping(damping float64) {
	g.damping = damping
}

// Update feeds one frame into the window: the bitstream length in bytes and
// the decode cycles the engine spent on it.
func (g *Governor) Update(length, cycles int) {
	bits := length * 8

	// The first sample ever seeds the average.
	cycPerBit := float64(cycles) / float64(bits)
	if g.decodeCycleEMA == 0 {
		g.decodeCycleEMA = cycPerBit
	} else {
		g.decodeCycleEMA = g.damping*cycPerBit + (1-g.damping)*g.decodeCycleEMA
	}

	g.bitrateSum += uint32(bits)
	g.numSamples++
}

// Commit evaluates the window and reprograms the clock. Sample sets skewed
// by stalls in the feed, such as paused playback, are rejected: the per
// sample wall time must stay within 1.5x the frame time, or the window
// within 1.5x the previous one. The window restarts regardless of the
// outcome.
func (g *Governor) Commit() error {
	if g.numSamples < samplesThreshold {
		return nil
	}

	now := time.Now()
	wlDt := now.Sub(g.samplingTS).Microseconds()

	frameTime := 1.0e6 / g.framerate

	var err error
	if float64(wlDt)/float64(g.numSamples) < 1.5*frameTime ||
		(g.lastTSDelta != 0 && float64(wlDt) < 1.5*float64(g.lastTSDelta)) {
		avg := float64(g.bitrateSum) * 1e6 / float64(wlDt)
		clock := g.decodeCycleEMA * avg * headroom

		g.log.Debug("dfs clock update",
			"target_hz", uint32(clock),
			"samples", g.numSamples,
			"window_us", wlDt)
		err = g.setClock(uint32(clock))

		g.lastTSDelta = wlDt
	}

	g.numSamples = 0
	g.bitrateSum = 0
	g.samplingTS = now
	return err
}

// Close releases the clock back to the platform governor.
func (g *Governor) Close() error {
	return g.setClock(0)
}

// BuildStatsJSON serializes the governor state for introspection.
func (g *Governor) BuildStatsJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("framerate").Float64(g.framerate)
	obj.Name("decode_cycles_ema").Float64(g.decodeCycleEMA)
	obj.Name("damping").Float64(g.damping)
	obj.Name("num_samples").Int(int(g.numSamples))
	obj.Name("bitrate_sum").Int(int(g.bitrateSum))
	obj.Name("last_window_us").Int(int(g.lastTSDelta))
	obj.End()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
