// Package hydro runs the terrain hydrology stages over a mesh.Graph: height
// seeding, erosion, precipitation, depression filling, feature labeling,
// coastline chaining and river routing.
package hydro

import (
	"hydromap/internal/mesh"
	rng "hydromap/pkg/core"
)

// BlobKind selects how a blob's deposited value decays while it spreads.
type BlobKind uint8

const (
	// BlobIsland recomputes the value from the height of each dequeued cell,
	// so the spread follows the terrain it has just raised.
	BlobIsland BlobKind = iota
	// BlobHill carries one scalar that shrinks with every dequeued cell.
	BlobHill
)

func (k BlobKind) String() string {
	if k == BlobHill {
		return "hill"
	}
	return "island"
}

// BlobSpec parameterises one blob.
type BlobSpec struct {
	Height    float64
	Radius    float64
	Sharpness float64
	// DecayThreshold stops the spread once the value falls to or below it.
	DecayThreshold float64
}

// AddBlob raises start by spec.Height and spreads a decaying deposit
// breadth-first over the neighbors. It returns the touched cells in visit
// order.
func AddBlob(cells []mesh.Cell, start int, kind BlobKind, spec BlobSpec, r *rng.RNG) []int {
	if start < 0 || start >= len(cells) {
		return nil
	}
	threshold := spec.DecayThreshold
	if threshold <= 0 {
		threshold = DefaultParams().DecayThreshold
	}

	visited := make([]bool, len(cells))
	visited[start] = true
	raise(&cells[start], spec.Height)

	queue := []int{start}
	value := spec.Height
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		switch kind {
		case BlobIsland:
			value = cells[cur].Height * spec.Radius
		default:
			value *= spec.Radius
		}
		if value <= threshold {
			break
		}
		for _, n := range cells[cur].Neighbors {
			if n == mesh.NoCell || visited[n] {
				continue
			}
			mod := 1.0
			if spec.Sharpness != 0 {
				mod = r.Range(1.1-spec.Sharpness, 1.1+spec.Sharpness)
			}
			raise(&cells[n], value*mod)
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return queue
}

// raise adds delta to the cell height and drops any stale classification.
func raise(c *mesh.Cell, delta float64) {
	c.SetHeight(c.Height + delta)
	c.Feature = mesh.FeatureUnset
	c.FeatureNumber = 0
}
