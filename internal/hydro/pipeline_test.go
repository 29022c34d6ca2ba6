package hydro

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"hydromap/internal/geom"
	"hydromap/internal/mesh"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 200
	cfg.Height = 120
	cfg.Seed = 77
	return cfg
}

func TestGenerateDefaultScenario(t *testing.T) {
	out, err := Generate(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Meta.SeedUsed != 1234 {
		t.Fatalf("seed used %d", out.Meta.SeedUsed)
	}
	if out.Meta.RiversCount <= 0 {
		t.Fatalf("expected rivers, meta %+v", out.Meta)
	}
	if len(out.CoastIslands) < 1 {
		t.Fatalf("expected at least one island coastline, meta %+v", out.Meta)
	}
	if out.Meta.Cells != len(out.Cells) || len(out.Cells) == 0 {
		t.Fatalf("meta reports %d cells, outputs hold %d", out.Meta.Cells, len(out.Cells))
	}
	checkHeights(t, out.Cells)
	for i := range out.Cells {
		if out.Cells[i].Feature == mesh.FeatureUnset {
			t.Fatalf("cell %d left unclassified", i)
		}
	}
	for _, r := range append(append([]geom.Ring{}, out.CoastIslands...), out.CoastLakes...) {
		if !r.Closed() || r.Vertices() < 3 {
			t.Fatalf("bad ring %v", r)
		}
	}

	counts := map[int]int{}
	for _, pt := range out.Rivers {
		counts[pt.River]++
		if pt.Kind == RiverDelta && oceanNeighbors(out.Cells, pt.Cell) < 2 {
			t.Fatalf("delta point at cell %d borders fewer than two ocean cells", pt.Cell)
		}
	}
	if len(counts) != out.Meta.RiversCount {
		t.Fatalf("outputs hold %d rivers, meta says %d", len(counts), out.Meta.RiversCount)
	}
	for id, n := range counts {
		if n < 2 {
			t.Fatalf("river %d kept with %d points", id, n)
		}
	}
	if len(out.RiverSegments) == 0 {
		t.Fatal("expected river geometry")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if a.Meta.RiversCount != b.Meta.RiversCount {
		t.Fatalf("rivers count %d vs %d", a.Meta.RiversCount, b.Meta.RiversCount)
	}
	if !slices.Equal(heightsOf(a.Cells), heightsOf(b.Cells)) {
		t.Fatal("heights differ between identical runs")
	}
	if !slices.Equal(a.Rivers, b.Rivers) {
		t.Fatal("river points differ between identical runs")
	}
	if !slices.Equal(a.RiverSegments, b.RiverSegments) {
		t.Fatal("river segments differ between identical runs")
	}
	ringsEqual := func(x, y []geom.Ring) bool {
		return slices.EqualFunc(x, y, func(p, q geom.Ring) bool { return slices.Equal(p, q) })
	}
	if !ringsEqual(a.CoastIslands, b.CoastIslands) || !ringsEqual(a.CoastLakes, b.CoastLakes) {
		t.Fatal("coastlines differ between identical runs")
	}
}

func TestGenerateSeedChangesOutput(t *testing.T) {
	a, err := Generate(context.Background(), smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	cfg := smallConfig()
	cfg.Seed++
	b, err := Generate(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if slices.Equal(heightsOf(a.Cells), heightsOf(b.Cells)) {
		t.Fatal("different seeds produced the same terrain")
	}
}

func TestPipelineStepsInOrder(t *testing.T) {
	p, err := NewPipeline(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	if p.Graph() != nil {
		t.Fatal("graph should not exist before the first step")
	}
	var seen []Stage
	for !p.Done() {
		next, _ := p.Next()
		rep, err := p.Step(context.Background())
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if rep.Stage != next || rep.Index != len(seen) || rep.Summary == "" {
			t.Fatalf("unexpected report %+v", rep)
		}
		seen = append(seen, rep.Stage)
	}
	if !slices.Equal(seen, Stages) {
		t.Fatalf("stages %v, expected %v", seen, Stages)
	}
	if _, err := p.Step(context.Background()); !errors.Is(err, ErrPipelineDone) {
		t.Fatalf("expected ErrPipelineDone, got %v", err)
	}
}

func TestPipelineStepwiseMatchesGenerate(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	p, err := NewPipeline(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	var partial *Outputs
	for !p.Done() {
		if _, err := p.Step(ctx); err != nil {
			t.Fatal(err)
		}
		if next, _ := p.Next(); next == StageFlux {
			partial = p.Outputs()
		}
	}
	stepped := p.Outputs()
	whole, err := Generate(context.Background(), smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(heightsOf(stepped.Cells), heightsOf(whole.Cells)) || !slices.Equal(stepped.Rivers, whole.Rivers) {
		t.Fatal("stepwise run differs from Generate")
	}
	if partial == nil || len(partial.Rivers) != 0 || partial.Meta.RiversCount != 0 {
		t.Fatal("outputs before routing should carry no rivers")
	}
}

func TestPipelineHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p, err := NewPipeline(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Step(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	if _, err := p.Step(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if next, _ := p.Next(); next != StageHeights {
		t.Fatalf("cancelled step must not advance, next is %s", next)
	}
	if _, err := Generate(ctx, smallConfig()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled from Generate, got %v", err)
	}
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params.PoissonRadius = -1
	if _, err := Generate(context.Background(), cfg); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}

	// valid on its face, but the sampler grid would be enormous
	cfg = DefaultConfig()
	cfg.Width, cfg.Height = 100000, 100000
	cfg.Params.PoissonRadius = 1
	p, err := NewPipeline(cfg)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	_, err = p.Step(context.Background())
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration from the graph stage, got %v", err)
	}
	if _, again := p.Step(context.Background()); !errors.Is(again, ErrInvalidConfiguration) {
		t.Fatalf("failed pipeline should keep failing, got %v", again)
	}
}
