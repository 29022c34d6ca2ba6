package hydro

import "hydromap/internal/mesh"

// FeatureSummary counts the labeled components.
type FeatureSummary struct {
	// OceanSeed is the cell the ocean flood started from, or mesh.NoCell
	// when the map has no water.
	OceanSeed   int
	OceanCells  int
	Islands     int
	Lakes       int
	IslandCells int
	LakeCells   int
}

// MarkFeatures labels every cell as ocean, island or lake. The ocean is the
// water component containing oceanSeed; a negative or non-water seed falls
// back to the water cell closest to the origin. The remaining components are
// numbered in cell order, islands and lakes each counting from 0.
func MarkFeatures(cells []mesh.Cell, seaLevel float64, oceanSeed int) FeatureSummary {
	for i := range cells {
		cells[i].Feature = mesh.FeatureUnset
		cells[i].FeatureNumber = 0
	}
	water := func(i int) bool { return cells[i].Height < seaLevel }

	sum := FeatureSummary{OceanSeed: pickOceanSeed(cells, water, oceanSeed)}
	queue := make([]int, 0, len(cells))
	if sum.OceanSeed != mesh.NoCell {
		sum.OceanCells = flood(cells, sum.OceanSeed, mesh.FeatureOcean, 0, water, queue)
	}

	for i := range cells {
		if cells[i].Feature != mesh.FeatureUnset {
			continue
		}
		if water(i) {
			sum.LakeCells += flood(cells, i, mesh.FeatureLake, sum.Lakes, water, queue)
			sum.Lakes++
			continue
		}
		land := func(j int) bool { return !water(j) }
		sum.IslandCells += flood(cells, i, mesh.FeatureIsland, sum.Islands, land, queue)
		sum.Islands++
	}
	return sum
}

func pickOceanSeed(cells []mesh.Cell, water func(int) bool, requested int) int {
	if requested >= 0 && requested < len(cells) && water(requested) {
		return requested
	}
	best, bestD := mesh.NoCell, 0.0
	for i := range cells {
		if !water(i) {
			continue
		}
		c := &cells[i]
		if d := c.X*c.X + c.Y*c.Y; best == mesh.NoCell || d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// flood labels the unlabeled component of start whose cells satisfy same and
// returns its size. queue is scratch space.
func flood(cells []mesh.Cell, start int, f mesh.Feature, number int, same func(int) bool, queue []int) int {
	queue = append(queue[:0], start)
	cells[start].Feature = f
	cells[start].FeatureNumber = number
	for head := 0; head < len(queue); head++ {
		for _, n := range cells[queue[head]].Neighbors {
			if n == mesh.NoCell || cells[n].Feature != mesh.FeatureUnset || !same(n) {
				continue
			}
			cells[n].Feature = f
			cells[n].FeatureNumber = number
			queue = append(queue, n)
		}
	}
	return len(queue)
}
