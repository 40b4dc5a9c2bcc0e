//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"

	"lifereel/internal/app"
	"lifereel/internal/core"
	"lifereel/internal/record"
	_ "lifereel/internal/sims/life"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()
	app.SetupLogging(cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid flags: %v", err)
	}
	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.Fatalf("unknown sim %q", cfg.Sim)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := factory(cfg.LifeMap())
	sim.Reset(cfg.Seed)

	var rec app.Recording
	if cfg.Record {
		opts, err := cfg.RecorderOptions()
		if err != nil {
			log.Fatalf("invalid flags: %v", err)
		}
		r, err := record.Start(ctx, opts, cfg.Encoder())
		if err != nil {
			log.WithError(err).Error("recording disabled")
		} else {
			rec = r
		}
	}

	game := app.New(ctx, sim, cfg, rec)

	ebiten.SetWindowTitle("Game Of Life")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(cfg.Width+app.PanelWidth, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(game)
	if err := game.Close(); err != nil {
		if ctx.Err() != nil && errors.Is(err, record.ErrAborted) {
			log.Warn("recording interrupted")
			os.Exit(130)
		}
		log.WithError(err).Error("recording failed")
		os.Exit(1)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		log.Fatalf("%v", runErr)
	}
}
