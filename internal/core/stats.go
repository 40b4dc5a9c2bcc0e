package core

import (
	"math"
	"time"
)

const (
	fpsWindow = time.Second
	minWindow = 3 * time.Second
)

// FrameStats accumulates frame-rate counters for the HUD. The host loop owns a
// single value and calls Tick once per rendered frame.
type FrameStats struct {
	// FPS is the rate measured over the last completed one-second window.
	FPS float64
	// Max is the highest FPS seen so far.
	Max float64
	// Min is the lowest FPS seen during the previous three-second window.
	Min float64

	frames      int
	windowStart time.Time
	minStart    time.Time
	pendingMin  float64
}

// Tick records one frame at now.
func (s *FrameStats) Tick(now time.Time) {
	if s.windowStart.IsZero() {
		s.windowStart = now
		s.minStart = now
		return
	}
	s.frames++

	if elapsed := now.Sub(s.windowStart); elapsed >= fpsWindow {
		s.FPS = float64(s.frames) / elapsed.Seconds()
		s.frames = 0
		s.windowStart = now
		if s.FPS > s.Max {
			s.Max = s.FPS
		}
		if s.pendingMin == 0 || s.FPS < s.pendingMin {
			s.pendingMin = s.FPS
		}
	}

	if now.Sub(s.minStart) >= minWindow {
		s.Min = s.pendingMin
		s.pendingMin = s.FPS
		s.minStart = now
	}
}

// Truncate cuts v down to a multiple of 1/(10*precision) without rounding.
// Precision 2 steps in twentieths (59.987 becomes 59.95); the FPS readout
// relies on that step, it is not a decimal-digit count.
func Truncate(v float64, precision int) float64 {
	if precision <= 0 {
		return math.Trunc(v)
	}
	scale := float64(10 * precision)
	return math.Trunc(v*scale) / scale
}
