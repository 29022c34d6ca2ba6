package hydro

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"hydromap/internal/geom"
	"hydromap/internal/mesh"
	rng "hydromap/pkg/core"
)

// Stage names one step of a generation run.
type Stage string

const (
	StageGraph         Stage = "graph"
	StageHeights       Stage = "heights"
	StageDowncutCoast  Stage = "downcut-coast"
	StagePrecipitation Stage = "precipitation"
	StageDepressions   Stage = "depressions"
	StageFeatures      Stage = "features"
	StageCoastlines    Stage = "coastlines"
	StageFlux          Stage = "flux"
	StageDowncutRivers Stage = "downcut-rivers"
	StageRivers        Stage = "rivers"
)

// Stages is the fixed execution order. The shared RNG is consumed in this
// order, so reordering changes every seed's output.
var Stages = []Stage{
	StageGraph,
	StageHeights,
	StageDowncutCoast,
	StagePrecipitation,
	StageDepressions,
	StageFeatures,
	StageCoastlines,
	StageFlux,
	StageDowncutRivers,
	StageRivers,
}

// ErrPipelineDone is returned by Step once every stage has run.
var ErrPipelineDone = errors.New("hydro: pipeline finished")

const tracerName = "hydromap/hydro"

// StageReport describes one completed stage.
type StageReport struct {
	Stage   Stage
	Index   int
	Elapsed time.Duration
	Summary string
}

// Pipeline runs the stages one at a time over a single graph and RNG.
type Pipeline struct {
	cfg    Config
	rng    *rng.RNG
	tracer trace.Tracer

	graph *mesh.Graph
	next  int
	err   error

	winds       WindReport
	depressions DepressionReport
	features    FeatureSummary
	coast       Coastlines
	flux        FluxResult
	rivers      []RiverPoint
	riversCount int
	segments    []geom.Bezier
}

// NewPipeline validates cfg and prepares a run seeded with cfg.Seed.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:    cfg,
		rng:    rng.NewRNG(cfg.Seed),
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Config returns the configuration the pipeline runs with.
func (p *Pipeline) Config() Config { return p.cfg }

// Graph returns the cell graph, or nil before the graph stage has run.
func (p *Pipeline) Graph() *mesh.Graph { return p.graph }

// Done reports whether every stage has run.
func (p *Pipeline) Done() bool { return p.next >= len(Stages) }

// Next returns the stage the following Step will run.
func (p *Pipeline) Next() (Stage, bool) {
	if p.Done() {
		return "", false
	}
	return Stages[p.next], true
}

// Step runs the next stage. The context is only checked before the stage
// starts; a stage that starts always runs to completion.
func (p *Pipeline) Step(ctx context.Context) (StageReport, error) {
	if p.err != nil {
		return StageReport{}, p.err
	}
	if p.Done() {
		return StageReport{}, ErrPipelineDone
	}
	if err := ctx.Err(); err != nil {
		return StageReport{}, err
	}

	stage := Stages[p.next]
	_, span := p.tracer.Start(ctx, "hydro."+string(stage), trace.WithAttributes(
		attribute.String("hydro.stage", string(stage)),
		attribute.Int64("hydro.seed", p.cfg.Seed),
	))
	defer span.End()

	start := time.Now()
	summary, err := p.run(stage)
	if err != nil {
		p.err = fmt.Errorf("stage %s: %w", stage, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return StageReport{Stage: stage, Index: p.next}, p.err
	}
	span.SetAttributes(attribute.String("hydro.summary", summary))

	rep := StageReport{Stage: stage, Index: p.next, Elapsed: time.Since(start), Summary: summary}
	p.next++
	return rep, nil
}

// Run executes the remaining stages and returns the outputs.
func (p *Pipeline) Run(ctx context.Context) (*Outputs, error) {
	for !p.Done() {
		if _, err := p.Step(ctx); err != nil {
			return nil, err
		}
	}
	return p.Outputs(), nil
}

// Generate runs a full pipeline for cfg.
func Generate(ctx context.Context, cfg Config) (*Outputs, error) {
	p, err := NewPipeline(cfg)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}

func (p *Pipeline) run(stage Stage) (string, error) {
	params := p.cfg.Params
	if stage == StageGraph {
		g, err := mesh.Build(params.meshConfig(p.cfg.Width, p.cfg.Height), p.rng)
		if err != nil {
			return "", err
		}
		p.graph = g
		return fmt.Sprintf("%d cells, %d reciprocity fixes", len(g.Cells), g.ReciprocityFixes), nil
	}

	g := p.graph
	cells := g.Cells
	switch stage {
	case StageHeights:
		hills := p.seedHeights()
		return fmt.Sprintf("island and %d hills, %d land cells", hills, countLand(cells, params.SeaLevel)), nil

	case StageDowncutCoast:
		n := DowncutCoastline(cells, params.SeaLevel, params.Downcut)
		return fmt.Sprintf("%d cells lowered, %d land cells", n, countLand(cells, params.SeaLevel)), nil

	case StagePrecipitation:
		p.winds = Precipitate(cells, g, g.Width, g.Height, p.rng, params)
		rays := 0
		for _, n := range p.winds.Rays {
			rays += n
		}
		return fmt.Sprintf("winds %v, %d rays, %d blocked", windNamesOf(p.winds), rays, p.winds.Blocked), nil

	case StageDepressions:
		p.depressions = ResolveDepressions(cells, params.SeaLevel, params.DepressionEpsilon, params.DepressionPassCap)
		d := p.depressions
		return fmt.Sprintf("%d passes, %d lifts, %d remaining", d.Passes, d.Lifted, d.Remaining), nil

	case StageFeatures:
		p.features = MarkFeatures(cells, params.SeaLevel, params.OceanSeed)
		f := p.features
		return fmt.Sprintf("ocean %d cells, %d islands, %d lakes", f.OceanCells, f.Islands, f.Lakes), nil

	case StageCoastlines:
		p.coast = BuildCoastlines(cells, g, params.SeaLevel, params.CoastSnap)
		c := p.coast
		return fmt.Sprintf("%d island rings, %d lake rings, %d dropped chains", len(c.Islands), len(c.Lakes), c.Dropped), nil

	case StageFlux:
		p.flux = RouteFlux(cells, g, params)
		f := p.flux
		return fmt.Sprintf("%d river ids, %d points, %d deltas, %d estuaries", f.RiverIDs, len(f.Points), f.Deltas, f.Estuaries), nil

	case StageDowncutRivers:
		n := DowncutRivers(cells, params.SeaLevel, params.Downcut, params.RiverCutFlux)
		return fmt.Sprintf("%d cells lowered", n), nil

	case StageRivers:
		p.rivers, p.riversCount = DropShortRivers(p.flux.Points)
		p.segments = BuildRiverSegments(p.rivers, cells, params)
		return fmt.Sprintf("%d rivers, %d segments", p.riversCount, len(p.segments)), nil
	}
	return "", fmt.Errorf("unknown stage %q", stage)
}

// seedHeights places the central island and the hills. It returns the number
// of hills placed.
func (p *Pipeline) seedHeights() int {
	g := p.graph
	params := p.cfg.Params
	r := p.rng

	cx := g.Width/2 + r.Range(-params.IslandJitter, params.IslandJitter)*g.Width
	cy := g.Height/2 + r.Range(-params.IslandJitter, params.IslandJitter)*g.Height
	if start, ok := g.NearestCellAt(cx, cy); ok {
		AddBlob(g.Cells, start, BlobIsland, BlobSpec{
			Height:         params.IslandHeight,
			Radius:         params.IslandRadius,
			Sharpness:      params.IslandSharpness,
			DecayThreshold: params.DecayThreshold,
		}, r)
	}

	placed := 0
	for range params.HillCount {
		start := p.pickHillStart()
		if start == mesh.NoCell {
			continue
		}
		AddBlob(g.Cells, start, BlobHill, BlobSpec{
			Height:         r.Range(params.HillHeightMin, params.HillHeightMax),
			Radius:         params.HillRadius,
			Sharpness:      params.HillSharpness,
			DecayThreshold: params.DecayThreshold,
		}, r)
		placed++
	}
	return placed
}

// pickHillStart samples cells until one is not already high and is land or
// touches land. When attempts run out the last candidate is used.
func (p *Pipeline) pickHillStart() int {
	g := p.graph
	params := p.cfg.Params
	last := mesh.NoCell
	for range max(params.HillAttempts, 1) {
		id, ok := g.NearestCellAt(p.rng.Range(0, g.Width), p.rng.Range(0, g.Height))
		if !ok {
			continue
		}
		last = id
		c := &g.Cells[id]
		if c.Height > params.HillMaxStartHeight {
			continue
		}
		if c.Height >= params.SeaLevel || bordersLand(g.Cells, c, params.SeaLevel) {
			return id
		}
	}
	return last
}

func bordersLand(cells []mesh.Cell, c *mesh.Cell, seaLevel float64) bool {
	for _, n := range c.Neighbors {
		if n != mesh.NoCell && cells[n].Height >= seaLevel {
			return true
		}
	}
	return false
}

func countLand(cells []mesh.Cell, seaLevel float64) int {
	n := 0
	for i := range cells {
		if cells[i].Height >= seaLevel {
			n++
		}
	}
	return n
}

func windNamesOf(rep WindReport) []string {
	var names []string
	for _, w := range rep.Winds() {
		names = append(names, w.String())
	}
	return names
}

// Outputs snapshots the current state. Before the final stage it reflects a
// partial run; fields of stages not yet run are empty.
func (p *Pipeline) Outputs() *Outputs {
	out := &Outputs{
		Width:  p.cfg.Width,
		Height: p.cfg.Height,
		Meta:   Meta{SeedUsed: p.cfg.Seed},
	}
	if p.graph == nil {
		return out
	}
	out.Cells = cloneCells(p.graph.Cells)
	out.CoastIslands = p.coast.Islands
	out.CoastLakes = p.coast.Lakes
	out.Rivers = p.rivers
	out.RiverSegments = p.segments
	out.Meta = Meta{
		RiversCount:           p.riversCount,
		RiverIDs:              p.flux.RiverIDs,
		SeedUsed:              p.cfg.Seed,
		Cells:                 len(p.graph.Cells),
		Islands:               p.features.Islands,
		Lakes:                 p.features.Lakes,
		Winds:                 windNamesOf(p.winds),
		DepressionPasses:      p.depressions.Passes,
		UnresolvedDepressions: p.depressions.Remaining,
		DroppedRingChains:     p.coast.Dropped,
		ReciprocityFixes:      p.graph.ReciprocityFixes,
	}
	return out
}
