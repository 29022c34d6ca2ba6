package hydro

import (
	"math"
	"slices"
	"testing"

	"hydromap/internal/mesh"
)

// chainCells builds a hand-wired graph: sources drain through the land cell
// 2 into the ocean cell 3. Cell 4 feeds cell 1.
//
//	4 -> 1 -> 2 -> 3 (ocean)
//	     0 ---^
func chainCells() []mesh.Cell {
	cells := []mesh.Cell{
		{ID: 0, X: 0, Y: 10, Height: 0.9, Flux: 1, Precipitation: 1, Neighbors: []int{2}},
		{ID: 1, X: 20, Y: 10, Height: 0.8, Flux: 1, Precipitation: 1, Neighbors: []int{2, 4}},
		{ID: 2, X: 10, Y: 20, Height: 0.5, Flux: 0.1, Precipitation: 0.1, Neighbors: []int{0, 1, 3}},
		{ID: 3, X: 10, Y: 30, Height: 0.0, Flux: 0.02, Neighbors: []int{2}, Feature: mesh.FeatureOcean},
		{ID: 4, X: 30, Y: 0, Height: 0.95, Flux: 1, Precipitation: 1, Neighbors: []int{1}},
	}
	for i := range cells {
		cells[i].River = mesh.NoRiver
	}
	return cells
}

func TestRouteFluxMergeFavorsLongerRiver(t *testing.T) {
	cells := chainCells()
	p := DefaultParams()
	res := RouteFlux(cells, stubLocator{cells}, p)

	// order by height: 4, 0, 1, 2
	// 4 starts river 0 and reaches 1; 0 starts river 1 and reaches 2;
	// 1 brings river 0 (3 points) into 2 where river 1 has 2 points.
	if res.RiverIDs != 2 || res.Sources != 2 || res.Merges != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if cells[2].River != 0 {
		t.Fatalf("confluence should take the longer river 0, got %d", cells[2].River)
	}
	kinds := make([]RiverKind, len(res.Points))
	for i, pt := range res.Points {
		kinds[i] = pt.Kind
	}
	want := []RiverKind{RiverSource, RiverCourse, RiverSource, RiverCourse, RiverCourse, RiverEstuary}
	if !slices.Equal(kinds, want) {
		t.Fatalf("point kinds %v, expected %v", kinds, want)
	}
	last := res.Points[len(res.Points)-1]
	if last.River != 0 || last.Pour != 3 || last.Cell != 2 {
		t.Fatalf("unexpected outlet %+v", last)
	}
	if total := cells[3].Flux - 0.02; math.Abs(total-3.1) > 1e-12 {
		t.Fatalf("ocean received %f flux, expected 3.1", total)
	}
	if cells[2].Precipitation != 0.9 {
		t.Fatalf("downstream precipitation %f, expected 0.9", cells[2].Precipitation)
	}
}

func TestRouteFluxMergeTieKeepsTarget(t *testing.T) {
	cells := chainCells()
	// cut 4 off so both tributaries arrive with two points
	cells[4].Height = 0.1
	cells[4].Feature = mesh.FeatureOcean
	cells[1].Neighbors = []int{2}
	res := RouteFlux(cells, stubLocator{cells}, DefaultParams())

	// 0 starts river 0 and marks 2; 1 starts river 1 and ties with river 0
	if res.Merges != 1 || cells[2].River != 0 {
		t.Fatalf("tie should keep the target's river, got %d (%+v)", cells[2].River, res)
	}
}

func TestRouteFluxLakeOutletIsEstuary(t *testing.T) {
	cells := chainCells()
	cells[3].Feature = mesh.FeatureLake
	cells[2].Flux = 20
	res := RouteFlux(cells, stubLocator{cells}, DefaultParams())

	// a lake has no ocean mouths, so even a high-flux river ends in an estuary
	if res.Deltas != 0 || res.Estuaries != 1 {
		t.Fatalf("unexpected outlets %+v", res)
	}
	last := res.Points[len(res.Points)-1]
	if last.Kind != RiverEstuary || last.Pour != 3 || last.Cell != 2 {
		t.Fatalf("unexpected lake outlet %+v", last)
	}
}

func TestRouteFluxEstuaryIsNudgedOutward(t *testing.T) {
	g := latticeGraph(t, 5, 5)
	for i := range g.Cells {
		g.Cells[i].Height = 0
	}
	centre := 12
	g.Cells[centre].Height = 0.5
	g.Cells[centre].Flux = 5
	MarkFeatures(g.Cells, 0.2, -1)
	p := DefaultParams()

	res := RouteFlux(g.Cells, g, p)
	if res.Estuaries != 1 || res.Deltas != 0 || len(res.Points) != 2 {
		t.Fatalf("expected a source and one estuary, got %+v", res)
	}
	out := res.Points[1]
	mid, ok := g.EdgeMidpoint(centre, out.Pour)
	if !ok {
		t.Fatalf("no edge between %d and %d", centre, out.Pour)
	}
	site := g.Cells[centre].Site()
	bank := mid.Dist(site)
	if got := site.Dist(geomPoint(out)); math.Abs(got-bank*(1+p.EstuaryNudge)) > 1e-9 {
		t.Fatalf("estuary %f from the centre, expected %f", got, bank*(1+p.EstuaryNudge))
	}
}

func TestRouteFluxDeltaSplitsIntoMouths(t *testing.T) {
	g := latticeGraph(t, 5, 5)
	for i := range g.Cells {
		g.Cells[i].Height = 0
	}
	centre := 12
	g.Cells[centre].Height = 0.5
	g.Cells[centre].Flux = 20
	MarkFeatures(g.Cells, 0.2, -1)
	p := DefaultParams()

	res := RouteFlux(g.Cells, g, p)
	ocean := 0
	for _, n := range g.Cells[centre].Neighbors {
		if n != mesh.NoCell && g.Cells[n].Feature == mesh.FeatureOcean {
			ocean++
		}
	}
	if ocean < 2 {
		t.Fatalf("fixture needs several ocean neighbors, got %d", ocean)
	}
	if res.Deltas != ocean || res.RiverIDs != ocean {
		t.Fatalf("expected %d mouths and ids, got %+v", ocean, res)
	}
	pours := map[int]bool{}
	for _, pt := range res.Points {
		if pt.Kind != RiverDelta {
			continue
		}
		c := g.Cells[pt.Cell]
		if c.Flux <= p.DeltaFlux || oceanNeighbors(g.Cells, pt.Cell) < 2 {
			t.Fatalf("delta point from cell %d without the delta conditions", pt.Cell)
		}
		if pours[pt.Pour] {
			t.Fatalf("two mouths pour into %d", pt.Pour)
		}
		pours[pt.Pour] = true
	}
	if res.Points[1].River != res.Points[0].River {
		t.Fatal("first mouth should continue the source river")
	}

	kept, rivers := DropShortRivers(res.Points)
	if rivers != 1 || len(kept) != 2 {
		t.Fatalf("only the main river should survive, got %d rivers %v", rivers, kept)
	}
}

func TestRouteFluxConservesFlux(t *testing.T) {
	g := sampledGraph(t, 160, 100, 5, 77)
	for i := range g.Cells {
		c := &g.Cells[i]
		c.Height = 0.9 - 0.8*c.X/160
		if c.X > 130 {
			c.Height = 0.05
		}
		c.Precipitation = 0.1
		c.Flux = 0.1
	}
	p := DefaultParams()
	dep := ResolveDepressions(g.Cells, p.SeaLevel, p.DepressionEpsilon, p.DepressionPassCap)
	if !dep.Converged {
		t.Fatalf("fixture should drain cleanly: %+v", dep)
	}
	MarkFeatures(g.Cells, p.SeaLevel, -1)

	landFlux, waterBefore := 0.0, 0.0
	for i := range g.Cells {
		if g.Cells[i].Height >= p.SeaLevel {
			landFlux += g.Cells[i].Flux
		} else {
			waterBefore += g.Cells[i].Flux
		}
	}
	res := RouteFlux(g.Cells, g, p)
	waterAfter := 0.0
	for i := range g.Cells {
		if g.Cells[i].Height < p.SeaLevel {
			waterAfter += g.Cells[i].Flux
		}
	}
	if math.Abs(waterAfter-waterBefore-landFlux) > 1e-6 {
		t.Fatalf("water gained %f flux, land produced %f", waterAfter-waterBefore, landFlux)
	}
	if res.Sources == 0 {
		t.Fatal("expected rivers on a draining slope")
	}

	again := sampledGraph(t, 160, 100, 5, 77)
	for i := range again.Cells {
		c := &again.Cells[i]
		c.Height = 0.9 - 0.8*c.X/160
		if c.X > 130 {
			c.Height = 0.05
		}
		c.Precipitation = 0.1
		c.Flux = 0.1
	}
	ResolveDepressions(again.Cells, p.SeaLevel, p.DepressionEpsilon, p.DepressionPassCap)
	MarkFeatures(again.Cells, p.SeaLevel, -1)
	if !slices.Equal(res.Points, RouteFlux(again.Cells, again, p).Points) {
		t.Fatal("routing is not deterministic")
	}
}

func TestRiverKindText(t *testing.T) {
	b, err := RiverEstuary.MarshalText()
	if err != nil || string(b) != "estuary" {
		t.Fatalf("marshal estuary: %q %v", b, err)
	}
	var k RiverKind
	if err := k.UnmarshalText([]byte("delta")); err != nil || k != RiverDelta {
		t.Fatalf("unmarshal delta: %v %v", k, err)
	}
	if err := k.UnmarshalText([]byte("creek")); err == nil {
		t.Fatal("unknown kind should fail")
	}
}

func oceanNeighbors(cells []mesh.Cell, i int) int {
	n := 0
	for _, nb := range cells[i].Neighbors {
		if nb != mesh.NoCell && cells[nb].Feature == mesh.FeatureOcean {
			n++
		}
	}
	return n
}
