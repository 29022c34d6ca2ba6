package mesh

import (
	"errors"
	"fmt"
	"math"

	"hydromap/internal/core"
	"hydromap/internal/geom"
	rng "hydromap/pkg/core"
)

// ErrInvalidConfiguration reports sampling parameters that would produce a
// degenerate or oversized background grid.
var ErrInvalidConfiguration = errors.New("invalid configuration")

const (
	// DefaultSamplerTries is the number of candidates tried around an active
	// sample before it is retired.
	DefaultSamplerTries = 30
	// DefaultMaxGridCells caps the sampler background grid.
	DefaultMaxGridCells = 1 << 22
)

// SamplerConfig configures Poisson-disc sampling.
type SamplerConfig struct {
	Width, Height float64
	Radius        float64
	Tries         int
	MaxGridCells  int
}

// gridSize validates cfg and returns the background grid dimensions.
func (cfg SamplerConfig) gridSize() (int, int, float64, error) {
	for _, v := range []float64{cfg.Width, cfg.Height, cfg.Radius} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, fmt.Errorf("%w: non-finite sampling dimension", ErrInvalidConfiguration)
		}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, 0, fmt.Errorf("%w: map size %gx%g must be positive", ErrInvalidConfiguration, cfg.Width, cfg.Height)
	}
	if cfg.Radius <= 0 {
		return 0, 0, 0, fmt.Errorf("%w: poisson radius %g must be positive", ErrInvalidConfiguration, cfg.Radius)
	}
	limit := cfg.MaxGridCells
	if limit <= 0 {
		limit = DefaultMaxGridCells
	}
	cellSize := cfg.Radius / math.Sqrt2
	gw := math.Ceil(cfg.Width / cellSize)
	gh := math.Ceil(cfg.Height / cellSize)
	if gw*gh > float64(limit) {
		return 0, 0, 0, fmt.Errorf("%w: sampling grid %.0fx%.0f exceeds %d cells", ErrInvalidConfiguration, gw, gh, limit)
	}
	return int(gw), int(gh), cellSize, nil
}

// Sample distributes points over [0,w)x[0,h) so that no two are closer than
// the radius. All randomness comes from r, in a fixed call order.
func Sample(r *rng.RNG, cfg SamplerConfig) ([]geom.Point, error) {
	gw, gh, cellSize, err := cfg.gridSize()
	if err != nil {
		return nil, err
	}
	tries := cfg.Tries
	if tries <= 0 {
		tries = DefaultSamplerTries
	}

	grid := core.NewGrid[int32](gw, gh)
	grid.Fill(-1)

	radius2 := cfg.Radius * cfg.Radius
	points := make([]geom.Point, 0, gw*gh/2)
	active := make([]int, 0, 256)

	toGrid := func(p geom.Point) (int, int) {
		gx := int(p.X / cellSize)
		gy := int(p.Y / cellSize)
		if gx >= gw {
			gx = gw - 1
		}
		if gy >= gh {
			gy = gh - 1
		}
		return gx, gy
	}

	far := func(p geom.Point) bool {
		if p.X < 0 || p.X >= cfg.Width || p.Y < 0 || p.Y >= cfg.Height {
			return false
		}
		gx, gy := toGrid(p)
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				nx, ny := gx+dx, gy+dy
				if !grid.In(nx, ny) {
					continue
				}
				idx := grid.At(nx, ny)
				if idx >= 0 && points[idx].Dist2(p) < radius2 {
					return false
				}
			}
		}
		return true
	}

	insert := func(p geom.Point) {
		gx, gy := toGrid(p)
		grid.Set(gx, gy, int32(len(points)))
		active = append(active, len(points))
		points = append(points, p)
	}

	insert(geom.Point{X: r.Float() * cfg.Width, Y: r.Float() * cfg.Height})

	for len(active) > 0 {
		ai := r.IntRange(0, len(active)-1)
		origin := points[active[ai]]

		found := false
		for k := 0; k < tries; k++ {
			angle := 2 * math.Pi * r.Float()
			dist := math.Sqrt(r.Float()*3*radius2 + radius2)
			candidate := geom.Point{
				X: origin.X + dist*math.Cos(angle),
				Y: origin.Y + dist*math.Sin(angle),
			}
			if far(candidate) {
				insert(candidate)
				found = true
				break
			}
		}
		if !found {
			active[ai] = active[len(active)-1]
			active = active[:len(active)-1]
		}
	}
	return points, nil
}
