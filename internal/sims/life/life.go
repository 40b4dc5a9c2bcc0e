package life

import (
	"strconv"

	"golang.org/x/sync/errgroup"

	"lifereel/internal/core"
)

// State is the binary life state of a cell.
type State uint8

const (
	Dead State = iota
	Alive
)

func (s State) String() string {
	if s == Alive {
		return "alive"
	}
	return "dead"
}

// Point is a pixel-space lattice coordinate. Both components are multiples of
// the configured cell size.
type Point struct {
	X, Y int
}

// Cell is one lattice position together with its state.
type Cell struct {
	Pos   Point
	State State
}

// Grid maps every lattice position to its cell. The key always equals the
// cell's own Pos.
type Grid map[Point]Cell

// Life implements Conway's Game of Life on a bounded lattice without wrapping.
type Life struct {
	cfg     Config
	grid    Grid
	next    Grid
	order   []Point
	offsets [8]Point
	display *core.ByteGrid

	generation uint64
}

// New returns a Life board with every cell dead.
func New(cfg Config) *Life {
	if cfg.CellSize <= 0 {
		cfg.CellSize = 1
	}
	cols, rows := cfg.Columns(), cfg.Rows()
	l := &Life{
		cfg:     cfg,
		grid:    make(Grid, cols*rows),
		next:    make(Grid, cols*rows),
		order:   make([]Point, 0, cols*rows),
		display: core.NewByteGrid(cols, rows),
	}
	s := cfg.CellSize
	l.offsets = [8]Point{
		{-s, -s}, {-s, 0}, {-s, s},
		{0, -s}, {0, s},
		{s, -s}, {s, 0}, {s, s},
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			p := Point{X: x * s, Y: y * s}
			l.grid[p] = Cell{Pos: p, State: Dead}
			l.next[p] = Cell{Pos: p, State: Dead}
			l.order = append(l.order, p)
		}
	}
	return l
}

// Name returns the simulation identifier.
func (l *Life) Name() string { return "life" }

// Size returns the grid dimensions in cells.
func (l *Life) Size() core.Size { return core.Size{W: l.display.W, H: l.display.H} }

// CellSize returns the lattice spacing in pixels.
func (l *Life) CellSize() int { return l.cfg.CellSize }

// Cells exposes a row-major view of the board, 1 for alive and 0 for dead.
// The slice is rewritten by Step, Reset and Set.
func (l *Life) Cells() []uint8 { return l.display.Cells() }

// Grid exposes the live cell map. Callers must not add or remove keys.
func (l *Life) Grid() Grid { return l.grid }

// Generation returns the number of steps taken since the last Reset.
func (l *Life) Generation() uint64 { return l.generation }

// At returns the cell at p and whether p lies on the lattice.
func (l *Life) At(p Point) (Cell, bool) {
	c, ok := l.grid[p]
	return c, ok
}

// Set changes the state of the cell at p. Points off the lattice are ignored.
func (l *Life) Set(p Point, s State) bool {
	c, ok := l.grid[p]
	if !ok {
		return false
	}
	c.State = s
	l.grid[p] = c
	l.display.Set(p.X/l.cfg.CellSize, p.Y/l.cfg.CellSize, uint8(s))
	return true
}

// Alive counts the living cells.
func (l *Life) Alive() int {
	n := 0
	for _, c := range l.grid {
		if c.State == Alive {
			n++
		}
	}
	return n
}

// Reset randomizes the board using the provided seed.
func (l *Life) Reset(seed int64) {
	rng := core.NewRNG(seed)
	for _, p := range l.order {
		s := Dead
		if rng.Chance(l.cfg.Density) {
			s = Alive
		}
		l.grid[p] = Cell{Pos: p, State: s}
	}
	l.generation = 0
	l.refresh()
}

// Neighbors returns the existing cells among the eight positions around c, in
// the order NW, W, SW, N, S, NE, E, SE.
func (l *Life) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, len(l.offsets))
	for _, d := range l.offsets {
		if n, ok := l.grid[Point{X: c.Pos.X + d.X, Y: c.Pos.Y + d.Y}]; ok {
			out = append(out, n)
		}
	}
	return out
}

func (l *Life) aliveNeighbors(p Point) int {
	n := 0
	for _, d := range l.offsets {
		if c, ok := l.grid[Point{X: p.X + d.X, Y: p.Y + d.Y}]; ok && c.State == Alive {
			n++
		}
	}
	return n
}

// Rule returns the next state of a cell given its current state and the number
// of living neighbors.
func Rule(s State, alive int) State {
	switch {
	case s == Alive && (alive == 2 || alive == 3):
		return Alive
	case s == Dead && alive == 3:
		return Alive
	default:
		return Dead
	}
}

// Step advances the simulation by one generation. Every cell reads the board
// as it was before the call; results land in the back buffer, which is swapped
// in once all cells are evaluated.
func (l *Life) Step() {
	if l.cfg.Workers > 1 && len(l.order) > l.cfg.Workers {
		l.stepParallel()
	} else {
		for _, p := range l.order {
			l.next[p] = Cell{Pos: p, State: Rule(l.grid[p].State, l.aliveNeighbors(p))}
		}
	}
	l.grid, l.next = l.next, l.grid
	l.generation++
	l.refresh()
}

// stepParallel splits the lattice into contiguous chunks, one goroutine each.
// Workers only read l.grid and write their own slots in states; the map write
// happens after every worker has returned.
func (l *Life) stepParallel() {
	states := make([]State, len(l.order))
	chunk := (len(l.order) + l.cfg.Workers - 1) / l.cfg.Workers

	var g errgroup.Group
	g.SetLimit(l.cfg.Workers)
	for start := 0; start < len(l.order); start += chunk {
		start, end := start, min(start+chunk, len(l.order))
		g.Go(func() error {
			for i := start; i < end; i++ {
				p := l.order[i]
				states[i] = Rule(l.grid[p].State, l.aliveNeighbors(p))
			}
			return nil
		})
	}
	// Workers never return an error; Wait is only the join.
	_ = g.Wait()

	for i, p := range l.order {
		l.next[p] = Cell{Pos: p, State: states[i]}
	}
}

func (l *Life) refresh() {
	cells := l.display.Cells()
	for i, p := range l.order {
		cells[i] = uint8(l.grid[p].State)
	}
}

// Parameters describes the board for the HUD.
func (l *Life) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Board",
		Params: []core.Parameter{
			{Key: "size", Label: "Size", Type: core.ParamTypeString, Value: strconv.Itoa(l.cfg.Width) + "x" + strconv.Itoa(l.cfg.Height)},
			{Key: "cell", Label: "Cell", Type: core.ParamTypeInt, Value: strconv.Itoa(l.cfg.CellSize)},
			{Key: "density", Label: "Density", Type: core.ParamTypeFloat, Value: strconv.FormatFloat(l.cfg.Density, 'f', -1, 64)},
			{Key: "generation", Label: "Generation", Type: core.ParamTypeInt, Value: strconv.FormatUint(l.generation, 10)},
			{Key: "alive", Label: "Alive", Type: core.ParamTypeInt, Value: strconv.Itoa(l.Alive())},
		},
	}}}
}

func init() {
	core.Register("life", func(cfg map[string]string) core.Sim {
		return New(FromMap(cfg))
	})
}
