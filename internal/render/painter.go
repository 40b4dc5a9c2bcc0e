//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter keeps an RGB24 frame and its RGBA upload image in sync with the
// cell data of a sim.
type GridPainter struct {
	raster *Rasterizer
	img    *ebiten.Image
	frame  []byte
	rgba   []byte
}

// NewGridPainter allocates a painter for a w*h pixel board.
func NewGridPainter(r *Rasterizer) *GridPainter {
	return &GridPainter{
		raster: r,
		img:    ebiten.NewImage(r.Width, r.Height),
		frame:  make([]byte, FrameSize(r.Width, r.Height)),
		rgba:   make([]byte, 4*r.Width*r.Height),
	}
}

// Update rasterizes cells into the painter's frame and uploads it.
func (gp *GridPainter) Update(cells []uint8) {
	gp.raster.Fill(gp.frame, cells)
	ToRGBA(gp.rgba, gp.frame)
	gp.img.WritePixels(gp.rgba)
}

// Frame returns a copy of the last rasterized RGB24 frame.
func (gp *GridPainter) Frame() []byte {
	return append([]byte(nil), gp.frame...)
}

// Draw blits the current image onto dst at the origin.
func (gp *GridPainter) Draw(dst *ebiten.Image) {
	dst.DrawImage(gp.img, &ebiten.DrawImageOptions{})
}

// ToggleGrid switches lattice lines on or off.
func (gp *GridPainter) ToggleGrid() { gp.raster.Grid = !gp.raster.Grid }
