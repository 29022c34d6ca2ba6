package hydro

import (
	"slices"
	"testing"

	"hydromap/internal/mesh"
)

func TestDowncutCoastlineLowersLandOnly(t *testing.T) {
	cells := []mesh.Cell{{Height: 0.1}, {Height: 0.2}, {Height: 0.25}, {Height: 0.05}, {Height: 0.9}}
	n := DowncutCoastline(cells, 0.2, 0.1)
	if n != 3 {
		t.Fatalf("expected 3 lowered cells, got %d", n)
	}
	want := []float64{0.1, 0.1, 0.15, 0.05, 0.8}
	for i, c := range cells {
		if diff := c.Height - want[i]; diff > 1e-12 || diff < -1e-12 {
			t.Fatalf("cell %d height %f, expected %f", i, c.Height, want[i])
		}
	}
}

func TestDowncutCoastlineClampsAndCountsChanges(t *testing.T) {
	cells := []mesh.Cell{{Height: 0.3}, {Height: 0}}
	if n := DowncutCoastline(cells, 0, 0.5); n != 1 {
		t.Fatalf("a cell already at 0 does not change; got %d changes", n)
	}
	checkHeights(t, cells)
	if n := DowncutCoastline(cells, 0, 0.5); n != 0 {
		t.Fatalf("second pass should change nothing, got %d", n)
	}
}

func TestDowncutRiversNeedsFluxAndMargin(t *testing.T) {
	cells := []mesh.Cell{
		{Height: 0.5, Flux: 0.03},
		{Height: 0.5, Flux: 0.02},
		{Height: 0.205, Flux: 1},
		{Height: 0.1, Flux: 5},
	}
	n := DowncutRivers(cells, 0.2, 0.1, 0.03)
	if n != 1 {
		t.Fatalf("expected 1 lowered cell, got %d", n)
	}
	if got := cells[0].Height; got < 0.49-1e-12 || got > 0.49+1e-12 {
		t.Fatalf("river cell height %f, expected 0.49", got)
	}
	if cells[1].Height != 0.5 || cells[2].Height != 0.205 || cells[3].Height != 0.1 {
		t.Fatalf("ineligible cells changed: %v", heightsOf(cells))
	}
}

func TestErosionIsMonotonic(t *testing.T) {
	g := sampledGraph(t, 100, 100, 6, 21)
	for i := range g.Cells {
		g.Cells[i].Height = float64(i%10) / 9
		g.Cells[i].Flux = float64(i%4) / 50
	}
	before := heightsOf(g.Cells)
	DowncutCoastline(g.Cells, 0.2, 0.1)
	DowncutRivers(g.Cells, 0.2, 0.1, 0.03)
	after := heightsOf(g.Cells)
	for i := range before {
		if after[i] > before[i] {
			t.Fatalf("cell %d rose from %f to %f", i, before[i], after[i])
		}
	}
	checkHeights(t, g.Cells)
	if slices.Equal(before, after) {
		t.Fatal("expected some heights to change")
	}
}
