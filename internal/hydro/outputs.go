package hydro

import (
	"slices"

	"hydromap/internal/geom"
	"hydromap/internal/mesh"
)

// Meta carries the run diagnostics next to the generated data.
type Meta struct {
	RiversCount int      `json:"riversCount"`
	RiverIDs    int      `json:"riverIds"`
	SeedUsed    int64    `json:"seedUsed"`
	Cells       int      `json:"cells"`
	Islands     int      `json:"islands"`
	Lakes       int      `json:"lakes"`
	Winds       []string `json:"winds"`

	DepressionPasses      int `json:"depressionPasses"`
	UnresolvedDepressions int `json:"unresolvedDepressions"`
	DroppedRingChains     int `json:"droppedRingChains"`
	ReciprocityFixes      int `json:"reciprocityFixes"`
}

// Outputs is the plain-data result of a run.
type Outputs struct {
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	Cells         []mesh.Cell   `json:"cells"`
	CoastIslands  []geom.Ring   `json:"coastIslands"`
	CoastLakes    []geom.Ring   `json:"coastLakes"`
	Rivers        []RiverPoint  `json:"rivers"`
	RiverSegments []geom.Bezier `json:"riverSegments"`
	Meta          Meta          `json:"meta"`
}

// DropShortRivers removes single-point rivers and returns the kept points
// with the number of rivers left.
func DropShortRivers(points []RiverPoint) ([]RiverPoint, int) {
	counts := map[int]int{}
	for _, pt := range points {
		counts[pt.River]++
	}
	kept := make([]RiverPoint, 0, len(points))
	for _, pt := range points {
		if counts[pt.River] > 1 {
			kept = append(kept, pt)
		}
	}
	rivers := 0
	for _, n := range counts {
		if n > 1 {
			rivers++
		}
	}
	return kept, rivers
}

// cloneCells copies the cell states. Polygons and neighbor lists are shared
// with the graph since no stage rewrites them.
func cloneCells(cells []mesh.Cell) []mesh.Cell {
	return slices.Clone(cells)
}
