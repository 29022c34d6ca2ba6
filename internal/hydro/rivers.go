package hydro

import (
	"math"

	"hydromap/internal/geom"
	"hydromap/internal/mesh"
)

// GroupRivers splits points into per-river polylines in order of first
// appearance. Point order within a river is preserved.
func GroupRivers(points []RiverPoint) [][]RiverPoint {
	index := map[int]int{}
	var out [][]RiverPoint
	for _, pt := range points {
		k, ok := index[pt.River]
		if !ok {
			k = len(out)
			index[pt.River] = k
			out = append(out, nil)
		}
		out[k] = append(out[k], pt)
	}
	return out
}

// BuildRiverSegments turns every river with at least two points into a chain
// of cubic curves through its points. Widths grow with flux and travelled
// distance and never shrink downstream.
func BuildRiverSegments(points []RiverPoint, cells []mesh.Cell, p Params) []geom.Bezier {
	var out []geom.Bezier
	for _, river := range GroupRivers(points) {
		if len(river) < 2 {
			continue
		}
		pts := make([]geom.Point, len(river))
		for i, pt := range river {
			pts[i] = geom.Point{X: pt.X, Y: pt.Y}
		}
		width, dist := 0.0, 0.0
		for i := 0; i+1 < len(pts); i++ {
			p0 := pts[max(i-1, 0)]
			p1 := pts[i]
			p2 := pts[i+1]
			p3 := pts[min(i+2, len(pts)-1)]
			dist += p1.Dist(p2)

			flux := 0.0
			if c := river[i+1].Cell; c >= 0 && c < len(cells) {
				flux = cells[c].Flux
			}
			w := p.RiverBaseWidth + p.RiverFluxWidth*math.Sqrt(max(flux, 0)) + p.RiverLengthWidth*dist
			width = max(width, w)

			out = append(out, geom.Bezier{
				P0:          p1,
				C1:          p1.Add(p2.Sub(p0).Mul(1.0 / 6)),
				C2:          p2.Sub(p3.Sub(p1).Mul(1.0 / 6)),
				P1:          p2,
				Width:       width,
				ShadowWidth: width * p.RiverShadowScale,
				River:       river[0].River,
			})
		}
	}
	return out
}
