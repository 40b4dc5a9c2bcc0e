package render

import "image/color"

// BytesPerPixel is the stride of one RGB24 pixel.
const BytesPerPixel = 3

var (
	// AliveColor fills living cells.
	AliveColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	// DeadColor fills dead cells.
	DeadColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	// LineColor draws the lattice grid.
	LineColor = color.RGBA{A: 0xff}
)

// FrameSize returns the byte length of a w*h RGB24 frame.
func FrameSize(w, h int) int { return w * h * BytesPerPixel }

// Rasterizer paints cell data into raw, row-major RGB24 frames of
// Width x Height pixels, one CellSize square per cell.
type Rasterizer struct {
	Width, Height int
	CellSize      int
	Grid          bool

	Alive, Dead, Line color.RGBA
}

// NewRasterizer returns a Rasterizer using the default palette with grid lines.
func NewRasterizer(w, h, cell int) *Rasterizer {
	if cell <= 0 {
		cell = 1
	}
	return &Rasterizer{
		Width:    w,
		Height:   h,
		CellSize: cell,
		Grid:     true,
		Alive:    AliveColor,
		Dead:     DeadColor,
		Line:     LineColor,
	}
}

// NewFrame allocates a buffer and fills it from cells. The caller owns the
// returned slice.
func (r *Rasterizer) NewFrame(cells []uint8) []byte {
	buf := make([]byte, FrameSize(r.Width, r.Height))
	r.Fill(buf, cells)
	return buf
}

// Fill writes cells into buf. cells is row-major with Width/CellSize columns;
// nonzero values are alive. buf must hold FrameSize(Width, Height) bytes.
func (r *Rasterizer) Fill(buf []byte, cells []uint8) {
	cols := r.Width / r.CellSize
	for y := 0; y < r.Height; y++ {
		cy := y / r.CellSize
		row := buf[y*r.Width*BytesPerPixel : (y+1)*r.Width*BytesPerPixel]
		for x := 0; x < r.Width; x++ {
			cx := x / r.CellSize
			col := r.Dead
			switch {
			case r.Grid && (x%r.CellSize == 0 || y%r.CellSize == 0):
				col = r.Line
			case cx < cols && cy*cols+cx < len(cells) && cells[cy*cols+cx] != 0:
				col = r.Alive
			}
			base := x * BytesPerPixel
			row[base+0] = col.R
			row[base+1] = col.G
			row[base+2] = col.B
		}
	}
}

// ToRGBA expands an RGB24 frame into an opaque RGBA buffer.
func ToRGBA(dst, src []byte) {
	for i, j := 0, 0; i+2 < len(src) && j+3 < len(dst); i, j = i+3, j+4 {
		dst[j+0] = src[i+0]
		dst[j+1] = src[i+1]
		dst[j+2] = src[i+2]
		dst[j+3] = 0xff
	}
}
