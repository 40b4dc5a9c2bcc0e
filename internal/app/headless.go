package app

import (
	"context"
	"time"

	"github.com/apex/log"

	"lifereel/internal/core"
	"lifereel/internal/record"
	"lifereel/internal/render"
)

// Recording is the part of the recorder the host loops drive.
type Recording interface {
	record.Sink
	Done() bool
}

// Headless drives a sim without a window. Time is simulated: every loop
// iteration stands for one video frame.
type Headless struct {
	Sim        core.Sim
	Raster     *render.Rasterizer
	Rec        Recording
	Interval   time.Duration
	FPS        int
	StillFrame bool
	// Steps ends the run after this many generations. Zero leaves it to the
	// recording target.
	Steps int
}

// Run loops until the recording target or step cap is reached and the
// recording is finalized. Cancelling ctx aborts the recording, including a
// Finalize already in progress, and Run then returns ctx.Err(). With neither a
// step cap nor a target Run only returns on cancellation.
func (h *Headless) Run(ctx context.Context) error {
	fps := h.FPS
	if fps <= 0 {
		fps = 60
	}
	frame := time.Second / time.Duration(fps)
	iv := core.NewInterval(h.Interval)
	now := time.Unix(0, 0)
	generations, emitted := 0, 0

	for {
		select {
		case <-ctx.Done():
			log.WithField("generations", generations).Warn("interrupted")
			if err := h.Rec.Abort(); err != nil {
				return err
			}
			return ctx.Err()
		default:
		}

		act := Decide(Tick{
			Recording:     true,
			StillFrame:    h.StillFrame,
			StepDue:       iv.Due(now),
			Initial:       emitted == 0,
			TargetReached: h.Rec.Done() || (h.Steps > 0 && generations >= h.Steps),
		})
		if act.Finish {
			log.WithField("generations", generations).Info("run complete")
			err := Finish(ctx, h.Rec).Wait()
			if ctx.Err() != nil {
				log.WithField("generations", generations).Warn("interrupted while finalizing")
				return ctx.Err()
			}
			return err
		}
		if act.Step {
			h.Sim.Step()
			generations++
		}
		if act.Emit {
			if err := h.Rec.Submit(h.Raster.NewFrame(h.Sim.Cells())); err != nil {
				_ = h.Rec.Abort()
				return err
			}
			emitted++
		}
		now = now.Add(frame)
	}
}
