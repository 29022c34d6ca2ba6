package render

import (
	"math"

	"hydromap/internal/core"
	"hydromap/internal/geom"
	"hydromap/internal/mesh"
)

// Rasterize samples the cell under every pixel centre of a size.W*size.H
// image. Pixels the locator misses stay IndexOcean.
func Rasterize(cells []mesh.Cell, loc mesh.Locator, size core.Size, seaLevel float64) *core.ByteGrid {
	g := core.NewByteGrid(size.W, size.H)
	if size.Area() == 0 {
		return g
	}
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			id, ok := loc.NearestCellAt(float64(x)+0.5, float64(y)+0.5)
			if !ok || id < 0 || id >= len(cells) {
				continue
			}
			g.Set(x, y, Classify(&cells[id], seaLevel))
		}
	}
	return g
}

// StampRivers paints every segment into g with IndexRiver, using the segment
// width as stroke diameter.
func StampRivers(g *core.ByteGrid, segs []geom.Bezier) int {
	stamped := 0
	for _, s := range segs {
		steps := int(math.Ceil(s.P0.Dist(s.P1)))*2 + 2
		r := s.Width / 2
		for i := 0; i <= steps; i++ {
			p := s.At(float64(i) / float64(steps))
			stamped += disc(g, p, r)
		}
	}
	return stamped
}

// disc fills the pixels whose centres lie within r of p, always at least the
// pixel under p.
func disc(g *core.ByteGrid, p geom.Point, r float64) int {
	n := 0
	x0, x1 := int(math.Floor(p.X-r)), int(math.Floor(p.X+r))
	y0, y1 := int(math.Floor(p.Y-r)), int(math.Floor(p.Y+r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !g.In(x, y) {
				continue
			}
			c := geom.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if c.Dist(p) > r && (x != int(math.Floor(p.X)) || y != int(math.Floor(p.Y))) {
				continue
			}
			if g.At(x, y) != IndexRiver {
				g.Set(x, y, IndexRiver)
				n++
			}
		}
	}
	return n
}
