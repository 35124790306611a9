package pixelizer

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Cell is one grid element. The original color is fixed when the grid is
// built; only the current color changes afterwards.
type Cell struct {
	X, Y     int
	original colorful.Color
	Current  colorful.Color
}

// Original returns the color the cell was created with.
func (c Cell) Original() colorful.Color {
	return c.original
}

// Grid is a W×H array of cells stored row-major (index y*W+x). Its size never
// changes; pixelizing again produces a new Grid.
type Grid struct {
	w, h  int
	cells []Cell
}

// NewGrid builds a grid whose original and current colors are both taken
// from colors, which must hold exactly w*h entries in row-major order.
func NewGrid(w, h int, colors []colorful.Color) (*Grid, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrPrecondition, w, h)
	}
	if len(colors) != w*h {
		return nil, fmt.Errorf("%w: %d colors for a %dx%d grid", ErrInput, len(colors), w, h)
	}
	g := &Grid{w: w, h: h, cells: make([]Cell, w*h)}
	for i, c := range colors {
		g.cells[i] = Cell{X: i % w, Y: i / w, original: c, Current: c}
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

// Len returns the number of cells.
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.cells)
}

func (g *Grid) index(x, y int) int {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		panic(fmt.Sprintf("pixelizer: cell (%d,%d) outside %dx%d grid", x, y, g.w, g.h))
	}
	return y*g.w + x
}

// Cell returns a copy of the cell at (x,y).
func (g *Grid) Cell(x, y int) Cell {
	return g.cells[g.index(x, y)]
}

func (g *Grid) Original(x, y int) colorful.Color {
	return g.cells[g.index(x, y)].original
}

func (g *Grid) Current(x, y int) colorful.Color {
	return g.cells[g.index(x, y)].Current
}

func (g *Grid) SetCurrent(x, y int, c colorful.Color) {
	g.cells[g.index(x, y)].Current = c
}

// Cells returns a copy of all cells in row-major order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

func (g *Grid) OriginalColors() []colorful.Color {
	out := make([]colorful.Color, len(g.cells))
	for i := range g.cells {
		out[i] = g.cells[i].original
	}
	return out
}

func (g *Grid) CurrentColors() []colorful.Color {
	out := make([]colorful.Color, len(g.cells))
	for i := range g.cells {
		out[i] = g.cells[i].Current
	}
	return out
}

// ResetAll restores every current color to the original one.
func (g *Grid) ResetAll() {
	for i := range g.cells {
		g.cells[i].Current = g.cells[i].original
	}
}

// ComplementAll replaces every current color with its tone-preserving complement.
func (g *Grid) ComplementAll() {
	for i := range g.cells {
		g.cells[i].Current = Complement(g.cells[i].Current)
	}
}

func (g *Grid) InvertAll() {
	for i := range g.cells {
		g.cells[i].Current = Invert(g.cells[i].Current)
	}
}

// Clone returns an independent copy of the grid, current colors included.
func (g *Grid) Clone() *Grid {
	return &Grid{w: g.w, h: g.h, cells: g.Cells()}
}

func (g *Grid) empty() bool {
	return g == nil || len(g.cells) == 0
}
