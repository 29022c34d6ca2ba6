// Package mesh builds the Voronoi cell graph every hydrology stage runs on:
// Poisson-disc sites, their Delaunay triangulation and the dual polygons
// clipped to the map rectangle.
package mesh

import (
	"fmt"
	"slices"

	"github.com/fogleman/delaunay"

	"hydromap/internal/core"
	"hydromap/internal/geom"
	rng "hydromap/pkg/core"
)

// Config controls graph construction.
type Config struct {
	Width  float64
	Height float64
	// Radius is the minimum spacing between sites.
	Radius       float64
	SamplerTries int
	MaxGridCells int
}

// Graph is the cell graph. Cells are indexed by ID.
type Graph struct {
	Width  float64
	Height float64
	Cells  []Cell

	// ReciprocityFixes counts neighbor links dropped because the other cell
	// did not list them back.
	ReciprocityFixes int

	buckets    *core.Grid[[]int32]
	bucketSize float64
}

// Build samples sites with r and derives the clipped Voronoi graph.
func Build(cfg Config, r *rng.RNG) (*Graph, error) {
	points, err := Sample(r, SamplerConfig{
		Width:        cfg.Width,
		Height:       cfg.Height,
		Radius:       cfg.Radius,
		Tries:        cfg.SamplerTries,
		MaxGridCells: cfg.MaxGridCells,
	})
	if err != nil {
		return nil, err
	}
	return FromSites(cfg.Width, cfg.Height, points)
}

// FromSites builds the graph for an explicit site list.
func FromSites(width, height float64, sites []geom.Point) (*Graph, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: map size %gx%g must be positive", ErrInvalidConfiguration, width, height)
	}
	adjacency, err := delaunayNeighbors(sites)
	if err != nil {
		return nil, err
	}

	box := geom.Rect{MaxX: width, MaxY: height}
	g := &Graph{Width: width, Height: height, Cells: make([]Cell, len(sites))}
	for i, s := range sites {
		poly := voronoiCell(box, sites, i, adjacency[i])
		g.Cells[i] = Cell{
			ID:        i,
			X:         s.X,
			Y:         s.Y,
			Polygon:   poly.pts,
			Neighbors: poly.tags,
			River:     NoRiver,
		}
	}
	g.ReciprocityFixes = g.enforceReciprocity()
	g.index(sites)
	return g, nil
}

func delaunayNeighbors(sites []geom.Point) ([][]int, error) {
	if len(sites) < 3 {
		return nil, fmt.Errorf("%w: %d sites cannot be triangulated", ErrInvalidConfiguration, len(sites))
	}
	pts := make([]delaunay.Point, len(sites))
	for i, s := range sites {
		pts[i] = delaunay.Point{X: s.X, Y: s.Y}
	}
	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("triangulate %d sites: %w", len(sites), err)
	}

	adjacency := make([][]int, len(sites))
	for e := range tri.Triangles {
		a := tri.Triangles[e]
		b := tri.Triangles[nextHalfedge(e)]
		adjacency[a] = append(adjacency[a], b)
		adjacency[b] = append(adjacency[b], a)
	}
	for i := range adjacency {
		slices.Sort(adjacency[i])
		adjacency[i] = slices.Compact(adjacency[i])
	}
	return adjacency, nil
}

func nextHalfedge(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

// enforceReciprocity replaces one-sided links with NoCell so that A lists B
// exactly when B lists A.
func (g *Graph) enforceReciprocity() int {
	fixes := 0
	for i := range g.Cells {
		c := &g.Cells[i]
		for k, n := range c.Neighbors {
			if n == NoCell {
				continue
			}
			if !slices.Contains(g.Cells[n].Neighbors, i) {
				c.Neighbors[k] = NoCell
				fixes++
			}
		}
	}
	return fixes
}

// Validate reports the first neighbor inconsistency found, or nil.
func (g *Graph) Validate() error {
	for i := range g.Cells {
		c := &g.Cells[i]
		if len(c.Neighbors) != len(c.Polygon) {
			return fmt.Errorf("cell %d: %d neighbors for %d polygon edges", i, len(c.Neighbors), len(c.Polygon))
		}
		for _, n := range c.Neighbors {
			if n == NoCell {
				continue
			}
			if n < 0 || n >= len(g.Cells) {
				return fmt.Errorf("cell %d: neighbor %d out of range", i, n)
			}
			if n == i {
				return fmt.Errorf("cell %d lists itself", i)
			}
			if !slices.Contains(g.Cells[n].Neighbors, i) {
				return fmt.Errorf("cell %d lists %d but not vice versa", i, n)
			}
		}
	}
	return nil
}

// Reset clears per-cell hydrology state, keeping the geometry.
func (g *Graph) Reset() {
	for i := range g.Cells {
		g.Cells[i].ResetState()
	}
}

// Size returns the map dimensions rounded up to whole pixels.
func (g *Graph) Size() core.Size {
	return core.Size{W: int(g.Width + 0.999999), H: int(g.Height + 0.999999)}
}
