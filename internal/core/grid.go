package core

// Grid stores a 2D grid of values in row-major order.
type Grid[T any] struct {
	W, H int
	data []T
}

// ByteGrid is the palette-index grid used by the raster layer.
type ByteGrid = Grid[uint8]

// NewGrid allocates a grid with the given dimensions.
func NewGrid[T any](w, h int) *Grid[T] {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid[T]{W: w, H: h, data: make([]T, w*h)}
}

// NewByteGrid allocates a byte grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid { return NewGrid[uint8](w, h) }

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid[T]) Cells() []T { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid[T]) Index(x, y int) int { return y*g.W + x }

// In reports whether (x, y) addresses a cell of the grid.
func (g *Grid[T]) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// At returns the value at (x, y).
func (g *Grid[T]) At(x, y int) T { return g.data[y*g.W+x] }

// Set stores v at (x, y).
func (g *Grid[T]) Set(x, y int, v T) { g.data[y*g.W+x] = v }

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Clear resets the grid to the zero value.
func (g *Grid[T]) Clear() {
	var zero T
	g.Fill(zero)
}
