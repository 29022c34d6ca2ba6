package hydro

import (
	"testing"

	"hydromap/internal/geom"
	"hydromap/internal/mesh"
	rng "hydromap/pkg/core"
)

// sampledGraph builds a small blue-noise graph.
func sampledGraph(t *testing.T, w, h, radius float64, seed int64) *mesh.Graph {
	t.Helper()
	g, err := mesh.Build(mesh.Config{Width: w, Height: h, Radius: radius}, rng.NewRNG(seed))
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

// latticeGraph builds an nx*ny grid of cells spaced 10 units apart. Cell ids
// run row by row: id = y*nx + x.
func latticeGraph(t *testing.T, nx, ny int) *mesh.Graph {
	t.Helper()
	sites := make([]geom.Point, 0, nx*ny)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			sites = append(sites, geom.Point{X: 5 + 10*float64(x), Y: 5 + 10*float64(y)})
		}
	}
	g, err := mesh.FromSites(float64(10*nx), float64(10*ny), sites)
	if err != nil {
		t.Fatalf("lattice graph: %v", err)
	}
	return g
}

func checkHeights(t *testing.T, cells []mesh.Cell) {
	t.Helper()
	for i := range cells {
		if h := cells[i].Height; h < 0 || h > 1 {
			t.Fatalf("cell %d height %f outside [0,1]", i, h)
		}
	}
}

func heightsOf(cells []mesh.Cell) []float64 {
	out := make([]float64, len(cells))
	for i := range cells {
		out[i] = cells[i].Height
	}
	return out
}

// stubLocator answers edge queries with the midpoint of the two sites.
type stubLocator struct {
	cells []mesh.Cell
}

func (s stubLocator) NearestCellAt(x, y float64) (int, bool) { return mesh.NoCell, false }

func (s stubLocator) SharedEdge(a, b int) (geom.Segment, bool) {
	m, ok := s.EdgeMidpoint(a, b)
	return geom.Segment{A: m, B: m}, ok
}

func (s stubLocator) EdgeMidpoint(a, b int) (geom.Point, bool) {
	if a < 0 || b < 0 || a >= len(s.cells) || b >= len(s.cells) {
		return geom.Point{}, false
	}
	return s.cells[a].Site().Lerp(s.cells[b].Site(), 0.5), true
}

func geomPoint(pt RiverPoint) geom.Point { return geom.Point{X: pt.X, Y: pt.Y} }
