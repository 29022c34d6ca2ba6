package hydro

import (
	"math"
	"slices"
	"testing"

	"hydromap/internal/mesh"
	rng "hydromap/pkg/core"
)

func TestAddBlobIslandFollowsRaisedHeights(t *testing.T) {
	g := sampledGraph(t, 120, 80, 6, 2)
	start, _ := g.NearestCellAt(60, 40)
	spec := BlobSpec{Height: 0.9, Radius: 0.85, DecayThreshold: 0.01}

	touched := AddBlob(g.Cells, start, BlobIsland, spec, rng.NewRNG(1))
	if len(touched) == 0 || touched[0] != start {
		t.Fatalf("expected the start cell first, got %v", touched)
	}
	if got := g.Cells[start].Height; got != 0.9 {
		t.Fatalf("start height %f, expected 0.9", got)
	}
	for _, n := range g.Cells[start].Neighbors {
		if n == mesh.NoCell {
			continue
		}
		if got, want := g.Cells[n].Height, 0.9*0.85; math.Abs(got-want) > 1e-12 {
			t.Fatalf("neighbor %d height %f, expected %f", n, got, want)
		}
	}
	checkHeights(t, g.Cells)
}

func TestAddBlobHillCarriesOneScalar(t *testing.T) {
	g := sampledGraph(t, 120, 80, 6, 2)
	start, _ := g.NearestCellAt(60, 40)
	spec := BlobSpec{Height: 0.5, Radius: 0.5, DecayThreshold: 0.01}

	touched := AddBlob(g.Cells, start, BlobHill, spec, rng.NewRNG(1))
	// values 0.25, 0.125, ... are handed out per dequeued cell until the
	// scalar reaches 0.0078; at most five cells spread.
	spreaders := 0
	for _, h := range []float64{0.25, 0.125, 0.0625, 0.03125, 0.015625} {
		found := false
		for _, id := range touched[1:] {
			if math.Abs(g.Cells[id].Height-h) < 1e-12 {
				found = true
				break
			}
		}
		if found {
			spreaders++
		}
	}
	if spreaders == 0 {
		t.Fatal("expected neighbor heights from the carried scalar")
	}
	for _, n := range g.Cells[start].Neighbors {
		if n != mesh.NoCell && math.Abs(g.Cells[n].Height-0.25) > 1e-12 {
			t.Fatalf("direct neighbor %d height %f, expected 0.25", n, g.Cells[n].Height)
		}
	}
	if len(touched) >= len(g.Cells) {
		t.Fatalf("hill spread over the whole map (%d cells)", len(touched))
	}
}

func TestAddBlobZeroSharpnessDrawsNothing(t *testing.T) {
	g := sampledGraph(t, 80, 80, 6, 4)
	r := rng.NewRNG(9)
	AddBlob(g.Cells, 3, BlobIsland, BlobSpec{Height: 0.8, Radius: 0.8, DecayThreshold: 0.01}, r)
	if r.Next() != rng.NewRNG(9).Next() {
		t.Fatal("sharpness 0 must not consume random numbers")
	}
}

func TestAddBlobClampsAndClearsFeatures(t *testing.T) {
	g := sampledGraph(t, 80, 80, 6, 4)
	for i := range g.Cells {
		g.Cells[i].Height = 0.95
		g.Cells[i].Feature = mesh.FeatureLake
		g.Cells[i].FeatureNumber = 3
	}
	touched := AddBlob(g.Cells, 0, BlobIsland, BlobSpec{Height: 0.9, Radius: 0.9, Sharpness: 0.2, DecayThreshold: 0.01}, rng.NewRNG(5))
	checkHeights(t, g.Cells)
	for _, id := range touched {
		if c := g.Cells[id]; c.Feature != mesh.FeatureUnset || c.FeatureNumber != 0 {
			t.Fatalf("cell %d kept feature %v/%d", id, c.Feature, c.FeatureNumber)
		}
	}
	if !slices.Contains(touched, 0) {
		t.Fatal("start cell missing from touched set")
	}
}

func TestAddBlobDeterministic(t *testing.T) {
	a := sampledGraph(t, 100, 60, 5, 8)
	b := sampledGraph(t, 100, 60, 5, 8)
	spec := BlobSpec{Height: 0.7, Radius: 0.9, Sharpness: 0.3, DecayThreshold: 0.01}
	ta := AddBlob(a.Cells, 10, BlobIsland, spec, rng.NewRNG(3))
	tb := AddBlob(b.Cells, 10, BlobIsland, spec, rng.NewRNG(3))
	if !slices.Equal(ta, tb) {
		t.Fatal("touched sets differ")
	}
	if !slices.Equal(heightsOf(a.Cells), heightsOf(b.Cells)) {
		t.Fatal("heights differ for the same seed")
	}
}

func TestAddBlobIgnoresInvalidStart(t *testing.T) {
	g := sampledGraph(t, 60, 60, 6, 1)
	if got := AddBlob(g.Cells, -1, BlobHill, BlobSpec{Height: 1, Radius: 0.9}, rng.NewRNG(1)); got != nil {
		t.Fatalf("expected nil for an invalid start, got %v", got)
	}
	if got := AddBlob(g.Cells, len(g.Cells), BlobHill, BlobSpec{Height: 1, Radius: 0.9}, rng.NewRNG(1)); got != nil {
		t.Fatalf("expected nil for an invalid start, got %v", got)
	}
}
