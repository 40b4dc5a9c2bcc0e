package app

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"

	"lifereel/internal/core"
	"lifereel/internal/record"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Sim      string
	Width    int
	Height   int
	Cell     int
	Interval time.Duration
	Density  float64
	Seed     int64
	Workers  int
	TPS      int

	Record     bool
	Strategy   string
	Dir        string
	Output     string
	Length     time.Duration
	StillFrame bool
	FPS        int
	Preset     string
	FFmpeg     string

	// Steps caps headless runs at a number of generations. Zero means no cap.
	Steps   int
	Verbose bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sim:      "life",
		Width:    800,
		Height:   600,
		Cell:     10,
		Interval: core.DefaultInterval,
		Density:  0.25,
		Seed:     42,
		Workers:  1,
		TPS:      60,
		Strategy: "memory",
		Dir:      record.DefaultDir,
		Output:   "out.mp4",
		Preset:   "veryslow",
		FFmpeg:   "ffmpeg",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Width, "width", c.Width, "board width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "board height in pixels")
	fs.IntVar(&c.Cell, "cell", c.Cell, "cell size in pixels")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "time between generations")
	fs.Float64Var(&c.Density, "density", c.Density, "probability a cell starts alive")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines used per generation")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")

	fs.BoolVar(&c.Record, "record", c.Record, "record the run to a video file")
	fs.StringVar(&c.Strategy, "record-strategy", c.Strategy, "frame buffering: memory, disk or stream")
	fs.StringVar(&c.Dir, "record-dir", c.Dir, "frame directory for the disk strategy")
	fs.StringVar(&c.Output, "out", c.Output, "output video file")
	fs.DurationVar(&c.Length, "record-length", c.Length, "stop recording after this much video (0 = until exit)")
	fs.BoolVar(&c.StillFrame, "still-frame", c.StillFrame, "only record a frame when a generation is simulated")
	fs.IntVar(&c.FPS, "fps", c.FPS, "video frame rate (0 = tps)")
	fs.StringVar(&c.Preset, "preset", c.Preset, "x264 preset")
	fs.StringVar(&c.FFmpeg, "ffmpeg", c.FFmpeg, "ffmpeg binary")

	fs.IntVar(&c.Steps, "steps", c.Steps, "stop a headless run after this many generations (0 = no limit)")
	fs.BoolVar(&c.Verbose, "verbose", c.Verbose, "debug logging")
}

// VideoFPS returns the frame rate of the recorded video.
func (c *Config) VideoFPS() int {
	if c.FPS > 0 {
		return c.FPS
	}
	if c.TPS > 0 {
		return c.TPS
	}
	return 60
}

// Validate checks the flags that the board and recorder depend on.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("board size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Cell <= 0 || c.Width%c.Cell != 0 || c.Height%c.Cell != 0 {
		return fmt.Errorf("cell size %d must evenly divide %dx%d", c.Cell, c.Width, c.Height)
	}
	if c.Interval < 0 {
		return errors.New("interval must not be negative")
	}
	if c.Density < 0 || c.Density > 1 {
		return fmt.Errorf("density %v outside [0, 1]", c.Density)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("tps %d must be positive", c.TPS)
	}
	if c.Steps < 0 || c.Length < 0 {
		return errors.New("steps and record-length must not be negative")
	}
	if c.Record {
		if _, err := record.ParseStrategy(c.Strategy); err != nil {
			return err
		}
		if c.Output == "" {
			return errors.New("output path is empty")
		}
	}
	return nil
}

// ValidateHeadless additionally requires a way for a windowless run to end.
func (c *Config) ValidateHeadless() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Steps == 0 && c.Length == 0 {
		return errors.New("headless recording needs -steps or -record-length")
	}
	if _, err := record.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	return nil
}

// LifeMap converts the board flags into the sim's option map.
func (c *Config) LifeMap() map[string]string {
	return map[string]string{
		"w":       strconv.Itoa(c.Width),
		"h":       strconv.Itoa(c.Height),
		"cell":    strconv.Itoa(c.Cell),
		"density": strconv.FormatFloat(c.Density, 'f', -1, 64),
		"workers": strconv.Itoa(c.Workers),
		"seed":    strconv.FormatInt(c.Seed, 10),
	}
}

// RecorderOptions builds the recorder configuration for a recorded run.
func (c *Config) RecorderOptions() (record.Options, error) {
	s, err := record.ParseStrategy(c.Strategy)
	if err != nil {
		return record.Options{}, err
	}
	return record.Options{
		Width:    c.Width,
		Height:   c.Height,
		FPS:      c.VideoFPS(),
		Output:   c.Output,
		Strategy: s,
		Dir:      c.Dir,
		Target:   c.Length,
	}, nil
}

// Encoder returns the ffmpeg encoder matching the recorder options.
func (c *Config) Encoder() *record.FFmpeg {
	enc := record.NewFFmpeg(c.Width, c.Height, c.VideoFPS(), c.Output)
	enc.Bin = c.FFmpeg
	enc.Preset = c.Preset
	return enc
}
