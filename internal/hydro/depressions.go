package hydro

import "hydromap/internal/mesh"

// DepressionReport summarises a ResolveDepressions run.
type DepressionReport struct {
	Passes int
	// Lifted is the total number of lifts over all passes.
	Lifted int
	// Remaining counts pits left after the final pass: cells lifted in it plus
	// cells that could not be raised because they already sit at height 1.
	Remaining int
	Converged bool
}

// ResolveDepressions fills pits until every land cell has a strictly lower
// neighbor or passCap passes have run. A pit is raised to its lowest
// neighbor plus eps.
func ResolveDepressions(cells []mesh.Cell, seaLevel, eps float64, passCap int) DepressionReport {
	var rep DepressionReport
	for rep.Passes < passCap {
		rep.Passes++
		lifted, stuck := 0, 0
		for i := range cells {
			c := &cells[i]
			if c.Height < seaLevel {
				continue
			}
			low, ok := lowestNeighborHeight(cells, c)
			if !ok || c.Height > low {
				continue
			}
			target := mesh.Clamp01(low + eps)
			if target <= c.Height {
				stuck++
				continue
			}
			c.Height = target
			lifted++
		}
		rep.Lifted += lifted
		rep.Remaining = lifted + stuck
		if lifted == 0 {
			rep.Converged = stuck == 0
			break
		}
	}
	return rep
}

func lowestNeighborHeight(cells []mesh.Cell, c *mesh.Cell) (float64, bool) {
	low, found := 0.0, false
	for _, n := range c.Neighbors {
		if n == mesh.NoCell {
			continue
		}
		if h := cells[n].Height; !found || h < low {
			low, found = h, true
		}
	}
	return low, found
}
