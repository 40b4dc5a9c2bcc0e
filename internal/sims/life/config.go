package life

import (
	"fmt"
	"strconv"
)

// Config holds parameters for the Game of Life grid.
type Config struct {
	// Width and Height are the board dimensions in pixels.
	Width  int
	Height int
	// CellSize is the lattice spacing in pixels.
	CellSize int
	// Density is the probability that a cell starts alive on Reset.
	Density float64
	// Workers bounds the goroutines used by Step; values <= 1 run serially.
	Workers int
	Seed    int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Width:    800,
		Height:   600,
		CellSize: 10,
		Density:  0.25,
		Workers:  1,
		Seed:     42,
	}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["cell"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.CellSize = parsed
		}
	}
	if v, ok := cfg["density"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Density = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	return c
}

// Columns returns the number of cells per row.
func (c Config) Columns() int { return c.Width / c.CellSize }

// Rows returns the number of cell rows.
func (c Config) Rows() int { return c.Height / c.CellSize }

// Validate reports configurations the lattice cannot represent exactly.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("life: board size %dx%d must be positive", c.Width, c.Height)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("life: cell size %d must be positive", c.CellSize)
	}
	if c.Width%c.CellSize != 0 || c.Height%c.CellSize != 0 {
		return fmt.Errorf("life: cell size %d does not evenly divide %dx%d", c.CellSize, c.Width, c.Height)
	}
	if c.Density < 0 || c.Density > 1 {
		return fmt.Errorf("life: density %v outside [0, 1]", c.Density)
	}
	return nil
}
