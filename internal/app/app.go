//go:build ebiten

package app

import (
	"context"
	"time"

	"github.com/apex/log"

	"lifereel/internal/core"
	"lifereel/internal/render"
	"lifereel/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PanelWidth is the width of the HUD to the right of the board.
const PanelWidth = 150

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	ctx     context.Context
	sim     core.Sim
	painter *render.GridPainter
	hud     *ui.HUD

	rec       Recording
	recErr    error
	emitted   int
	finishing *Finisher
	finished  bool

	interval   *core.Interval
	stats      core.FrameStats
	stillFrame bool

	boardW, boardH int
	paused         bool
	tickOnce       bool
	seed           int64
}

// New constructs a Game for the provided simulation. rec may be nil. Cancelling
// ctx aborts the recording and ends the game.
func New(ctx context.Context, sim core.Sim, cfg *Config, rec Recording) *Game {
	raster := render.NewRasterizer(cfg.Width, cfg.Height, core.CellSizeOf(sim))
	g := &Game{
		ctx:        ctx,
		sim:        sim,
		painter:    render.NewGridPainter(raster),
		hud:        ui.NewHUD(PanelWidth),
		rec:        rec,
		interval:   core.NewInterval(cfg.Interval),
		stillFrame: cfg.StillFrame,
		boardW:     cfg.Width,
		boardH:     cfg.Height,
		seed:       cfg.Seed,
	}
	g.painter.Update(sim.Cells())
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
	g.painter.Update(g.sim.Cells())
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		g.abort()
		return ebiten.Termination
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.painter.ToggleGrid()
		g.painter.Update(g.sim.Cells())
	}

	act := Decide(Tick{
		Recording:     g.rec != nil,
		StillFrame:    g.stillFrame,
		StepDue:       g.interval.Due(time.Now()),
		Initial:       g.emitted == 0,
		Paused:        g.paused,
		SingleStep:    g.tickOnce,
		TargetReached: g.rec != nil && g.rec.Done(),
	})
	if act.Step {
		g.sim.Step()
		g.tickOnce = false
		g.painter.Update(g.sim.Cells())
	}
	if act.Emit {
		if err := g.rec.Submit(g.painter.Frame()); err != nil {
			g.disableRecording(err)
		} else {
			g.emitted++
		}
	}
	if act.Finish {
		g.finish()
	}
	g.pollFinish()

	snap := RunStatus{
		Interval:   g.interval.Every(),
		Paused:     g.paused,
		Rec:        g.rec,
		RecErr:     g.recErr,
		Finalizing: g.finishing != nil && !g.finished,
	}.Parameters()
	if p, ok := g.sim.(core.ParameterProvider); ok {
		snap = p.Parameters().Merge(snap)
	}
	g.hud.Update(g.stats, snap)
	return nil
}

func (g *Game) disableRecording(err error) {
	log.WithError(err).Error("recording disabled")
	g.recErr = err
	g.abort()
}

func (g *Game) abort() {
	if g.rec == nil {
		return
	}
	if err := g.rec.Abort(); err != nil {
		log.WithError(err).Warn("abort recording")
	}
	g.rec = nil
}

// finish hands the recording to a background Finalize. Cancelling the game's
// context aborts it.
func (g *Game) finish() {
	if g.rec == nil {
		return
	}
	g.finishing = Finish(g.ctx, g.rec)
	g.rec = nil
}

func (g *Game) pollFinish() {
	if g.finishing == nil || g.finished {
		return
	}
	done, err := g.finishing.Poll()
	if !done {
		return
	}
	g.finished = true
	if err != nil {
		log.WithError(err).Error("finalize recording")
		g.recErr = err
		return
	}
	log.Info("recording finalized")
}

// Close finalizes any recording still in progress and waits for it. Call it
// after the game loop returns.
func (g *Game) Close() error {
	g.finish()
	if g.finishing == nil {
		return nil
	}
	return g.finishing.Wait()
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.stats.Tick(time.Now())
	g.painter.Draw(screen)
	g.hud.Draw(screen, g.boardW)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.boardW + g.hud.Width(), g.boardH
}
