package core

// Size describes the dimensions of a simulation grid in cells.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a cellular automaton must implement.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// CellSizer is implemented by sims whose cells span more than one pixel.
type CellSizer interface {
	CellSize() int
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// CellSizeOf returns the pixel size of one cell of sim, defaulting to 1.
func CellSizeOf(sim Sim) int {
	if cs, ok := sim.(CellSizer); ok && cs.CellSize() > 0 {
		return cs.CellSize()
	}
	return 1
}
