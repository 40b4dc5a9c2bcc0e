package core

import (
	"testing"
	"time"
)

func TestIntervalDue(t *testing.T) {
	iv := NewInterval(250 * time.Millisecond)
	start := time.Unix(100, 0)

	if iv.Due(start) {
		t.Fatal("first call should only start the clock")
	}
	if iv.Due(start.Add(100 * time.Millisecond)) {
		t.Fatal("step fired before the interval elapsed")
	}
	if !iv.Due(start.Add(250 * time.Millisecond)) {
		t.Fatal("step did not fire once the interval elapsed")
	}
	if iv.Due(start.Add(300 * time.Millisecond)) {
		t.Fatal("interval should restart after firing")
	}
	if !iv.Due(start.Add(500 * time.Millisecond)) {
		t.Fatal("second period did not fire")
	}
}

func TestIntervalZeroFiresEveryCall(t *testing.T) {
	iv := NewInterval(0)
	now := time.Unix(0, 1)
	for i := 0; i < 3; i++ {
		if !iv.Due(now) {
			t.Fatalf("call %d: zero interval should always be due", i)
		}
	}
}

func TestFrameStats(t *testing.T) {
	var s FrameStats
	start := time.Unix(0, 0)
	now := start
	for i := 0; i <= 50; i++ {
		s.Tick(now)
		now = now.Add(20 * time.Millisecond)
	}
	if s.FPS != 50 {
		t.Fatalf("fps = %.2f, expected 50", s.FPS)
	}
	if s.Max != 50 {
		t.Fatalf("max = %.2f, expected 50", s.Max)
	}

	now = now.Add(20 * time.Millisecond)
	for now.Sub(start) < 4*time.Second {
		s.Tick(now)
		now = now.Add(40 * time.Millisecond)
	}
	if s.Max != 50 {
		t.Fatalf("max changed to %.2f", s.Max)
	}
	if s.Min != 25 {
		t.Fatalf("min = %.2f, expected 25", s.Min)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   float64
		prec int
		want float64
	}{
		{59.987, 2, 59.95},
		{59.949, 2, 59.9},
		{12.5, 0, 12},
		{-3.19, 1, -3.1},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.prec); got != c.want {
			t.Fatalf("Truncate(%v, %d) = %v, want %v", c.in, c.prec, got, c.want)
		}
	}
}

func TestRNGChanceDeterministic(t *testing.T) {
	a, b := NewRNG(7), NewRNG(7)
	for i := 0; i < 100; i++ {
		if a.Chance(0.3) != b.Chance(0.3) {
			t.Fatalf("draw %d differs for identical seeds", i)
		}
	}
	if NewRNG(1).Chance(0) {
		t.Fatal("zero probability must never fire")
	}
	if !NewRNG(1).Chance(1) {
		t.Fatal("probability one must always fire")
	}
}

func TestRegistry(t *testing.T) {
	Register("", nil)
	if _, ok := Sims()[""]; ok {
		t.Fatal("empty registration should be ignored")
	}
}
