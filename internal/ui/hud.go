//go:build ebiten

package ui

import (
	"image/color"

	"lifereel/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	panelPadding = 8
	lineHeight   = 16
)

var (
	panelColor = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	textColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
)

// HUD renders frame counters and run parameters to the right of the board.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
	lines      []string
}

// NewHUD constructs a HUD with the given panel width.
func NewHUD(width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{width: width}
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the text shown on the panel.
func (h *HUD) Update(stats core.FrameStats, snap core.ParameterSnapshot) {
	if h == nil {
		return
	}
	h.lines = Lines(stats, snap)
}

// Draw paints the panel with its left edge at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	if h == nil || h.width == 0 {
		return
	}
	height := screen.Bounds().Dy()
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	for i, line := range h.lines {
		text.Draw(h.panel, line, face, panelPadding, panelPadding+lineHeight*(i+1), textColor)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}
