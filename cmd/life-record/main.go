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
	"lifereel/internal/render"
	_ "lifereel/internal/sims/life"
)

func main() {
	cfg := app.NewConfig()
	cfg.Record = true
	cfg.Bind(flag.CommandLine)
	flag.Parse()
	app.SetupLogging(cfg.Verbose)

	if err := cfg.ValidateHeadless(); err != nil {
		log.Fatalf("invalid flags: %v", err)
	}
	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.Fatalf("unknown sim %q", cfg.Sim)
	}
	opts, err := cfg.RecorderOptions()
	if err != nil {
		log.Fatalf("invalid flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := factory(cfg.LifeMap())
	sim.Reset(cfg.Seed)

	rec, err := record.Start(ctx, opts, cfg.Encoder())
	if err != nil {
		log.WithError(err).Fatal("start recording")
	}

	h := &app.Headless{
		Sim:        sim,
		Raster:     render.NewRasterizer(cfg.Width, cfg.Height, core.CellSizeOf(sim)),
		Rec:        rec,
		Interval:   cfg.Interval,
		FPS:        opts.FPS,
		StillFrame: cfg.StillFrame,
		Steps:      cfg.Steps,
	}
	if err := h.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, record.ErrAborted) {
			log.Warn("recording interrupted")
			os.Exit(130)
		}
		log.WithError(err).Fatal("recording failed")
	}
	log.WithFields(log.Fields{"output": opts.Output, "frames": rec.Frames()}).Info("wrote video")
}
