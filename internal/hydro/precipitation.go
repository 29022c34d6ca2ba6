package hydro

import (
	"math"

	"hydromap/internal/mesh"
	rng "hydromap/pkg/core"
)

// Wind identifies the map edge a wind blows in from.
type Wind uint8

const (
	WindNorth Wind = iota
	WindEast
	WindSouth
	WindWest
)

var windNames = [...]string{"N", "E", "S", "W"}

func (w Wind) String() string {
	if int(w) < len(windNames) {
		return windNames[w]
	}
	return "?"
}

// WindReport describes what the precipitation pass did.
type WindReport struct {
	Active [4]bool
	// Forced is set when randomization disabled every wind and one was
	// switched back on.
	Forced bool
	// Rays counts launched rays per wind.
	Rays [4]int
	// Blocked counts rays stopped by high ground.
	Blocked int
	// Deposited is the total precipitation dropped by rays before smoothing.
	Deposited float64
}

// Winds lists the active winds in N, E, S, W order.
func (w WindReport) Winds() []Wind {
	var out []Wind
	for i, on := range w.Active {
		if on {
			out = append(out, Wind(i))
		}
	}
	return out
}

// Count returns the number of active winds.
func (w WindReport) Count() int { return len(w.Winds()) }

// Precipitate marches wind rays across the map, smooths the result over land
// and seeds every cell's flux from its precipitation.
func Precipitate(cells []mesh.Cell, loc mesh.Locator, width, height float64, r *rng.RNG, p Params) WindReport {
	var rep WindReport
	rep.Active, rep.Forced = chooseWinds(r, p)

	for i := range cells {
		cells[i].Precipitation = 0
	}

	active := rep.Count()
	if active > 0 {
		load := p.Precip / math.Sqrt(float64(active))
		strip := 10 / float64(active)
		for _, w := range rep.Winds() {
			m := marcher{cells: cells, loc: loc, width: width, height: height, r: r, p: p, wind: w}
			for i := range cells {
				if !m.onFrontier(&cells[i], strip) {
					continue
				}
				rep.Rays[w]++
				dropped, blocked := m.march(cells[i].X, cells[i].Y, load)
				rep.Deposited += dropped
				if blocked {
					rep.Blocked++
				}
			}
		}
	}

	smoothPrecipitation(cells, p.SeaLevel, p.WaterPrecipitation)
	for i := range cells {
		c := &cells[i]
		if c.Height < p.SeaLevel {
			c.Flux = p.WaterFlux
		} else {
			c.Flux = c.Precipitation
		}
	}
	return rep
}

func chooseWinds(r *rng.RNG, p Params) ([4]bool, bool) {
	if !p.Winds.Randomize {
		return [4]bool{p.Winds.North, p.Winds.East, p.Winds.South, p.Winds.West}, false
	}
	var active [4]bool
	on := false
	for i := range active {
		active[i] = r.Float() < p.WindChance
		on = on || active[i]
	}
	if on {
		return active, false
	}
	active[r.IntRange(0, 3)] = true
	return active, true
}

type marcher struct {
	cells         []mesh.Cell
	loc           mesh.Locator
	width, height float64
	r             *rng.RNG
	p             Params
	wind          Wind
}

// onFrontier reports whether c lies within strip map units of the windward
// edge.
func (m *marcher) onFrontier(c *mesh.Cell, strip float64) bool {
	switch m.wind {
	case WindNorth:
		return c.Y < strip
	case WindEast:
		return c.X > m.width-strip
	case WindSouth:
		return c.Y > m.height-strip
	default:
		return c.X < strip
	}
}

// march walks one ray inward from (x, y) until it leaves the map or runs out
// of load.
func (m *marcher) march(x, y, load float64) (dropped float64, blocked bool) {
	jitter := m.p.RayJitter
	if m.wind == WindWest {
		jitter = m.p.WestRayJitter
	}
	for load > 0 {
		if x < 0 || y < 0 || x > m.width || y > m.height {
			return dropped, false
		}
		if id, ok := m.loc.NearestCellAt(x, y); ok {
			c := &m.cells[id]
			switch {
			case c.Height < m.p.SeaLevel:
			case c.Height >= m.p.OrographicHeight:
				return dropped, true
			default:
				d := min(load, m.r.Float()*c.Height)
				c.Precipitation += d
				load -= d
				dropped += d
			}
		}
		lateral := m.r.Range(-jitter, jitter)
		switch m.wind {
		case WindNorth:
			x, y = x+lateral, y+m.p.RayStep
		case WindEast:
			x, y = x-m.p.RayStep, y+lateral
		case WindSouth:
			x, y = x+lateral, y-m.p.RayStep
		default:
			x, y = x+m.p.RayStep, y+lateral
		}
	}
	return dropped, false
}

// smoothPrecipitation sets water to the base value and replaces every land
// value with the mean of itself and its neighbors. All means read the values
// from before smoothing.
func smoothPrecipitation(cells []mesh.Cell, seaLevel, water float64) {
	for i := range cells {
		if cells[i].Height < seaLevel {
			cells[i].Precipitation = water
		}
	}
	prev := make([]float64, len(cells))
	for i := range cells {
		prev[i] = cells[i].Precipitation
	}
	for i := range cells {
		c := &cells[i]
		if c.Height < seaLevel {
			continue
		}
		sum, n := prev[i], 1
		for _, nb := range c.Neighbors {
			if nb == mesh.NoCell {
				continue
			}
			sum += prev[nb]
			n++
		}
		c.Precipitation = sum / float64(n)
	}
}
