package hydro

import (
	"fmt"
	"slices"

	"hydromap/internal/mesh"
)

// RiverKind classifies a river point.
type RiverKind uint8

const (
	RiverSource RiverKind = iota
	RiverCourse
	RiverDelta
	RiverEstuary
)

var riverKindNames = [...]string{"source", "course", "delta", "estuary"}

func (k RiverKind) String() string {
	if int(k) < len(riverKindNames) {
		return riverKindNames[k]
	}
	return fmt.Sprintf("riverkind(%d)", uint8(k))
}

// MarshalText encodes the kind as its name.
func (k RiverKind) MarshalText() ([]byte, error) {
	if int(k) >= len(riverKindNames) {
		return nil, fmt.Errorf("unknown river kind %d", uint8(k))
	}
	return []byte(riverKindNames[k]), nil
}

// UnmarshalText decodes a kind name.
func (k *RiverKind) UnmarshalText(b []byte) error {
	for i, name := range riverKindNames {
		if name == string(b) {
			*k = RiverKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown river kind %q", b)
}

// RiverPoint is one vertex of a river polyline.
type RiverPoint struct {
	River int       `json:"river"`
	Cell  int       `json:"cell"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Kind  RiverKind `json:"type"`
	// Pour is the water cell an outlet drains into, or mesh.NoCell.
	Pour int `json:"pour"`
}

// FluxResult is the output of RouteFlux.
type FluxResult struct {
	Points []RiverPoint
	// RiverIDs is the number of river ids handed out, including delta
	// branches and rivers later merged away.
	RiverIDs  int
	Sources   int
	Deltas    int
	Estuaries int
	Merges    int
}

// RouteFlux drains every land cell into its lowest neighbor, highest cells
// first, accumulating flux and tracing rivers. Depressions must already be
// resolved and features marked.
func RouteFlux(cells []mesh.Cell, loc mesh.Locator, p Params) FluxResult {
	order := make([]int, 0, len(cells))
	for i := range cells {
		cells[i].River = mesh.NoRiver
		if cells[i].Height >= p.SeaLevel {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ha, hb := cells[a].Height, cells[b].Height
		switch {
		case ha > hb:
			return -1
		case ha < hb:
			return 1
		}
		return 0
	})

	r := router{cells: cells, loc: loc, p: p}
	for _, i := range order {
		r.drain(i)
	}
	r.res.Points = r.points
	r.res.RiverIDs = len(r.counts)
	return r.res
}

type router struct {
	cells  []mesh.Cell
	loc    mesh.Locator
	p      Params
	points []RiverPoint
	// counts[id] is the number of points recorded for river id.
	counts []int
	res    FluxResult
}

func (r *router) newRiver() int {
	r.counts = append(r.counts, 0)
	return len(r.counts) - 1
}

func (r *router) emit(pt RiverPoint) {
	r.points = append(r.points, pt)
	r.counts[pt.River]++
}

func (r *router) drain(i int) {
	c := &r.cells[i]
	target := lowestNeighbor(r.cells, c)
	if target == mesh.NoCell {
		return
	}

	if c.Flux > r.p.RiverSourceFlux && !c.HasRiver() {
		c.River = r.newRiver()
		r.emit(RiverPoint{River: c.River, Cell: i, X: c.X, Y: c.Y, Kind: RiverSource, Pour: mesh.NoCell})
		r.res.Sources++
	}

	t := &r.cells[target]
	t.Flux += c.Flux
	t.Precipitation = max(t.Precipitation, r.p.TargetPrecipShare*c.Precipitation)

	if !c.HasRiver() {
		return
	}
	if t.Height >= r.p.SeaLevel {
		r.emit(RiverPoint{River: c.River, Cell: target, X: t.X, Y: t.Y, Kind: RiverCourse, Pour: mesh.NoCell})
		switch {
		case !t.HasRiver():
			t.River = c.River
		case t.River != c.River:
			r.res.Merges++
			if r.counts[c.River] > r.counts[t.River] {
				t.River = c.River
			}
		}
		return
	}

	// lakes count as water; only ocean neighbors can become delta mouths
	mouths := r.oceanMouths(i, target)
	if c.Flux > r.p.DeltaFlux && len(mouths) > 1 {
		r.delta(i, mouths)
		return
	}
	r.estuary(i, target)
}

// oceanMouths lists the ocean neighbors of cell i, the drain target first
// when it is ocean itself.
func (r *router) oceanMouths(i, target int) []int {
	var mouths []int
	if r.cells[target].Feature == mesh.FeatureOcean {
		mouths = append(mouths, target)
	}
	for _, n := range r.cells[i].Neighbors {
		if n == mesh.NoCell || n == target || r.cells[n].Feature != mesh.FeatureOcean {
			continue
		}
		mouths = append(mouths, n)
	}
	return mouths
}

// delta continues the river into the first mouth and starts a new
// single-point river at every other one.
func (r *router) delta(i int, mouths []int) {
	c := &r.cells[i]
	first := true
	for _, m := range mouths {
		mid, ok := r.loc.EdgeMidpoint(i, m)
		if !ok {
			continue
		}
		id := c.River
		if !first {
			id = r.newRiver()
		}
		first = false
		r.emit(RiverPoint{River: id, Cell: i, X: mid.X, Y: mid.Y, Kind: RiverDelta, Pour: m})
		r.res.Deltas++
	}
}

// estuary ends the river just past the bank, nudged outward along the line
// from the cell centre through the edge midpoint.
func (r *router) estuary(i, target int) {
	c := &r.cells[i]
	mid, ok := r.loc.EdgeMidpoint(i, target)
	if !ok {
		return
	}
	out := mid.Add(mid.Sub(c.Site()).Mul(r.p.EstuaryNudge))
	r.emit(RiverPoint{River: c.River, Cell: i, X: out.X, Y: out.Y, Kind: RiverEstuary, Pour: target})
	r.res.Estuaries++
}

// lowestNeighbor returns the neighbor with the smallest height, the first
// one listed on ties, or mesh.NoCell for an isolated cell.
func lowestNeighbor(cells []mesh.Cell, c *mesh.Cell) int {
	best := mesh.NoCell
	for _, n := range c.Neighbors {
		if n == mesh.NoCell {
			continue
		}
		if best == mesh.NoCell || cells[n].Height < cells[best].Height {
			best = n
		}
	}
	return best
}
