package core

import "time"

// DefaultInterval is the delay between two generations when none is configured.
const DefaultInterval = 250 * time.Millisecond

// Interval gates simulation steps to a fixed wall-clock period, independent of
// the render frame rate.
type Interval struct {
	every time.Duration
	last  time.Time
}

// NewInterval constructs an Interval that fires every d.
func NewInterval(d time.Duration) *Interval {
	iv := &Interval{}
	iv.SetInterval(d)
	return iv
}

// SetInterval changes the period. It is safe to call from the main loop.
func (iv *Interval) SetInterval(d time.Duration) {
	if d < 0 {
		d = DefaultInterval
	}
	iv.every = d
}

// Every returns the configured period.
func (iv *Interval) Every() time.Duration { return iv.every }

// Due reports whether a step should run at now. The first call starts the
// clock and reports false unless the period is zero.
func (iv *Interval) Due(now time.Time) bool {
	if iv.last.IsZero() {
		iv.last = now
		return iv.every == 0
	}
	if now.Sub(iv.last) >= iv.every {
		iv.last = now
		return true
	}
	return false
}
