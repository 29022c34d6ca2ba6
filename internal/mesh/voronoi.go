package mesh

import (
	"hydromap/internal/geom"
)

// degenerateEdge is the length below which a clipped polygon edge is
// treated as a point and removed.
const degenerateEdge = 1e-7

// polygon is a convex ring whose edges carry the id of the cell on the other
// side: tags[i] labels the edge pts[i] -> pts[i+1].
type polygon struct {
	pts  []geom.Point
	tags []int
}

func boxPolygon(box geom.Rect) polygon {
	return polygon{
		pts:  box.Corners(),
		tags: []int{NoCell, NoCell, NoCell, NoCell},
	}
}

// clip keeps the half of p that is closer to site than to other. Edges
// created along the bisector are tagged with id.
func (p polygon) clip(site, other geom.Point, id int) polygon {
	n := len(p.pts)
	if n == 0 {
		return p
	}
	mid := site.Lerp(other, 0.5)
	dir := other.Sub(site)
	side := func(q geom.Point) float64 { return q.Sub(mid).Dot(dir) }

	out := polygon{
		pts:  make([]geom.Point, 0, n+1),
		tags: make([]int, 0, n+1),
	}
	for i := 0; i < n; i++ {
		a := p.pts[i]
		b := p.pts[(i+1)%n]
		sa, sb := side(a), side(b)
		inA, inB := sa <= 0, sb <= 0
		if inA {
			out.pts = append(out.pts, a)
			out.tags = append(out.tags, p.tags[i])
		}
		if inA == inB {
			continue
		}
		t := sa / (sa - sb)
		x := a.Lerp(b, t)
		out.pts = append(out.pts, x)
		if inA {
			// leaving the kept half: the next edge runs along the bisector
			out.tags = append(out.tags, id)
		} else {
			out.tags = append(out.tags, p.tags[i])
		}
	}
	return out
}

// compact drops zero-length edges. A polygon with fewer than three vertices
// left is returned empty.
func (p polygon) compact() polygon {
	n := len(p.pts)
	if n == 0 {
		return p
	}
	out := polygon{
		pts:  make([]geom.Point, 0, n),
		tags: make([]int, 0, n),
	}
	for i := 0; i < n; i++ {
		if p.pts[i].Dist(p.pts[(i+1)%n]) < degenerateEdge {
			continue
		}
		out.pts = append(out.pts, p.pts[i])
		out.tags = append(out.tags, p.tags[i])
	}
	if len(out.pts) < 3 {
		return polygon{}
	}
	return out
}

// voronoiCell intersects the bounding box with the bisector half-planes of
// every Delaunay neighbor of site.
func voronoiCell(box geom.Rect, sites []geom.Point, site int, neighbors []int) polygon {
	poly := boxPolygon(box)
	for _, j := range neighbors {
		poly = poly.clip(sites[site], sites[j], j)
		if len(poly.pts) == 0 {
			break
		}
	}
	return poly.compact()
}
