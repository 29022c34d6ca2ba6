// Package sweep runs many generations concurrently over a grid of parameter
// overrides and seeds, for tuning the defaults.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"hydromap/internal/hydro"
	"hydromap/internal/mesh"
)

// Scenario is one generation request: overrides on top of the base config
// plus a seed.
type Scenario struct {
	Overrides map[string]string
	Seed      int64
}

func (s Scenario) String() string {
	keys := slices.Sorted(maps.Keys(s.Overrides))
	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, fmt.Sprintf("seed=%d", s.Seed))
	for _, k := range keys {
		parts = append(parts, k+"="+s.Overrides[k])
	}
	return strings.Join(parts, " ")
}

// Result summarises one scenario run.
type Result struct {
	Scenario  Scenario
	Meta      hydro.Meta
	LandShare float64
	Segments  int
	Elapsed   time.Duration
	Err       error
}

// Grid expands axes into every combination of values. Keys are walked in
// sorted order so the scenario order is stable.
func Grid(axes map[string][]string) []map[string]string {
	combos := []map[string]string{{}}
	for _, key := range slices.Sorted(maps.Keys(axes)) {
		values := axes[key]
		if len(values) == 0 {
			continue
		}
		next := make([]map[string]string, 0, len(combos)*len(values))
		for _, base := range combos {
			for _, v := range values {
				m := maps.Clone(base)
				m[key] = v
				next = append(next, m)
			}
		}
		combos = next
	}
	return combos
}

// Scenarios pairs every combination with seeds first..first+count-1.
func Scenarios(combos []map[string]string, first int64, count int) []Scenario {
	out := make([]Scenario, 0, len(combos)*count)
	for _, c := range combos {
		for i := 0; i < count; i++ {
			out = append(out, Scenario{Overrides: c, Seed: first + int64(i)})
		}
	}
	return out
}

// Run evaluates scenarios on up to workers goroutines. Results keep the
// scenario order. A scenario that fails records its error in the result;
// only cancellation aborts the sweep.
func Run(ctx context.Context, base hydro.Config, scenarios []Scenario, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sc := range scenarios {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := evaluate(gctx, base, sc)
			if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
				return res.Err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func evaluate(ctx context.Context, base hydro.Config, sc Scenario) Result {
	cfg := base.Override(sc.Overrides)
	cfg.Seed = sc.Seed
	start := time.Now()
	out, err := hydro.Generate(ctx, cfg)
	res := Result{Scenario: sc, Elapsed: time.Since(start), Err: err}
	if err != nil {
		return res
	}
	res.Meta = out.Meta
	res.Segments = len(out.RiverSegments)
	res.LandShare = landShare(out.Cells)
	return res
}

func landShare(cells []mesh.Cell) float64 {
	if len(cells) == 0 {
		return 0
	}
	land := 0
	for i := range cells {
		if cells[i].Feature == mesh.FeatureIsland {
			land++
		}
	}
	return float64(land) / float64(len(cells))
}

// Rank orders successful results by river count, then by seed. Failed runs
// go last.
func Rank(results []Result) []Result {
	out := slices.Clone(results)
	slices.SortStableFunc(out, func(a, b Result) int {
		if (a.Err == nil) != (b.Err == nil) {
			if a.Err == nil {
				return -1
			}
			return 1
		}
		if a.Meta.RiversCount != b.Meta.RiversCount {
			return b.Meta.RiversCount - a.Meta.RiversCount
		}
		switch {
		case a.Scenario.Seed < b.Scenario.Seed:
			return -1
		case a.Scenario.Seed > b.Scenario.Seed:
			return 1
		}
		return 0
	})
	return out
}
