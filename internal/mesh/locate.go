package mesh

import (
	"math"

	"hydromap/internal/core"
	"hydromap/internal/geom"
)

// Locator answers the geometric queries later stages need. Every method may
// miss; callers skip and continue when ok is false.
type Locator interface {
	// NearestCellAt returns the cell whose site is closest to (x, y). It
	// misses outside the map or on an empty graph.
	NearestCellAt(x, y float64) (int, bool)
	// SharedEdge returns the polygon edge between cells a and b.
	SharedEdge(a, b int) (geom.Segment, bool)
	// EdgeMidpoint returns the midpoint of the edge between a and b.
	EdgeMidpoint(a, b int) (geom.Point, bool)
}

var _ Locator = (*Graph)(nil)

func (g *Graph) index(sites []geom.Point) {
	size := 8.0
	if n := len(sites); n > 0 {
		// roughly two sites per bucket
		size = math.Sqrt(2 * g.Width * g.Height / float64(n))
		if size <= 0 || math.IsNaN(size) {
			size = 8
		}
	}
	gw := int(math.Ceil(g.Width/size)) + 1
	gh := int(math.Ceil(g.Height/size)) + 1
	g.bucketSize = size
	g.buckets = core.NewGrid[[]int32](gw, gh)
	for i, s := range sites {
		bx, by := g.bucketOf(s.X, s.Y)
		g.buckets.Set(bx, by, append(g.buckets.At(bx, by), int32(i)))
	}
}

func (g *Graph) bucketOf(x, y float64) (int, int) {
	bx := int(x / g.bucketSize)
	by := int(y / g.bucketSize)
	if bx < 0 {
		bx = 0
	}
	if by < 0 {
		by = 0
	}
	if bx >= g.buckets.W {
		bx = g.buckets.W - 1
	}
	if by >= g.buckets.H {
		by = g.buckets.H - 1
	}
	return bx, by
}

// NearestCellAt implements Locator.
func (g *Graph) NearestCellAt(x, y float64) (int, bool) {
	if len(g.Cells) == 0 || g.buckets == nil {
		return NoCell, false
	}
	if x < 0 || y < 0 || x > g.Width || y > g.Height || math.IsNaN(x) || math.IsNaN(y) {
		return NoCell, false
	}
	p := geom.Point{X: x, Y: y}
	cx, cy := g.bucketOf(x, y)
	best, bestD := NoCell, math.Inf(1)
	maxRing := max(g.buckets.W, g.buckets.H)
	for ring := 0; ring <= maxRing; ring++ {
		// every bucket in this ring is at least (ring-1)*size away
		if best != NoCell {
			reach := float64(ring-1) * g.bucketSize
			if reach > 0 && reach*reach > bestD {
				break
			}
		}
		for by := cy - ring; by <= cy+ring; by++ {
			for bx := cx - ring; bx <= cx+ring; bx++ {
				if max(abs(bx-cx), abs(by-cy)) != ring || !g.buckets.In(bx, by) {
					continue
				}
				for _, id := range g.buckets.At(bx, by) {
					c := &g.Cells[id]
					d := p.Dist2(c.Site())
					if d < bestD || (d == bestD && int(id) < best) {
						best, bestD = int(id), d
					}
				}
			}
		}
	}
	return best, best != NoCell
}

// SharedEdge implements Locator.
func (g *Graph) SharedEdge(a, b int) (geom.Segment, bool) {
	if a < 0 || a >= len(g.Cells) || b < 0 || b >= len(g.Cells) {
		return geom.Segment{}, false
	}
	c := &g.Cells[a]
	n := len(c.Polygon)
	for i, nb := range c.Neighbors {
		if nb == b && i < n {
			return geom.Segment{A: c.Polygon[i], B: c.Polygon[(i+1)%n]}, true
		}
	}
	return geom.Segment{}, false
}

// EdgeMidpoint implements Locator.
func (g *Graph) EdgeMidpoint(a, b int) (geom.Point, bool) {
	s, ok := g.SharedEdge(a, b)
	if !ok {
		return geom.Point{}, false
	}
	return s.Midpoint(), true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
