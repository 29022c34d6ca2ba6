package hydro

import "hydromap/internal/mesh"

// DowncutCoastline lowers every cell at or above sea level by amount. It
// returns how many heights changed.
func DowncutCoastline(cells []mesh.Cell, seaLevel, amount float64) int {
	changed := 0
	for i := range cells {
		c := &cells[i]
		if c.Height < seaLevel {
			continue
		}
		if lower(c, amount) {
			changed++
		}
	}
	return changed
}

// DowncutRivers lowers land carrying at least cutFlux of flux by amount/10.
// Cells within 0.01 of sea level are left alone.
func DowncutRivers(cells []mesh.Cell, seaLevel, amount, cutFlux float64) int {
	changed := 0
	for i := range cells {
		c := &cells[i]
		if c.Flux < cutFlux || c.Height < seaLevel+0.01 {
			continue
		}
		if lower(c, amount/10) {
			changed++
		}
	}
	return changed
}

func lower(c *mesh.Cell, amount float64) bool {
	before := c.Height
	c.SetHeight(c.Height - amount)
	return c.Height != before
}
