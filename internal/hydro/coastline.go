package hydro

import (
	"math"

	"hydromap/internal/geom"
	"hydromap/internal/mesh"
)

// Coastlines holds the chained land/water boundaries.
type Coastlines struct {
	Islands []geom.Ring
	Lakes   []geom.Ring
	// Dropped counts chains that hit a dead end or closed on fewer than
	// three vertices.
	Dropped int
	// Shallow counts ocean cells marked as bordering land.
	Shallow int
}

type coastKey struct {
	kind   mesh.Feature
	number int
}

// BuildCoastlines collects every land/water polygon edge into one bucket per
// island or lake and chains each bucket into closed rings. Edge endpoints
// closer than snap are treated as one vertex. Ocean cells on a coast are
// marked Shallow.
func BuildCoastlines(cells []mesh.Cell, loc mesh.Locator, seaLevel, snap float64) Coastlines {
	for i := range cells {
		cells[i].Shallow = false
	}

	var order []coastKey
	buckets := map[coastKey][]geom.Segment{}
	add := func(k coastKey, s geom.Segment) {
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], s)
	}

	var out Coastlines
	for i := range cells {
		c := &cells[i]
		if c.Height < seaLevel {
			continue
		}
		for _, n := range c.Neighbors {
			if n == mesh.NoCell {
				continue
			}
			nb := &cells[n]
			var key coastKey
			switch nb.Feature {
			case mesh.FeatureOcean:
				key = coastKey{mesh.FeatureIsland, c.FeatureNumber}
			case mesh.FeatureLake:
				key = coastKey{mesh.FeatureLake, nb.FeatureNumber}
			default:
				continue
			}
			edge, ok := loc.SharedEdge(i, n)
			if !ok {
				continue
			}
			if nb.Feature == mesh.FeatureOcean && !nb.Shallow {
				nb.Shallow = true
				out.Shallow++
			}
			add(key, edge)
		}
	}

	for _, k := range order {
		rings, dropped := chainRings(buckets[k], snap)
		out.Dropped += dropped
		if k.kind == mesh.FeatureLake {
			out.Lakes = append(out.Lakes, rings...)
		} else {
			out.Islands = append(out.Islands, rings...)
		}
	}
	return out
}

// chainRings links unordered edges into closed rings by greedily following
// unused edges from node to node. Closed rings repeat their first point.
func chainRings(edges []geom.Segment, snap float64) ([]geom.Ring, int) {
	nodes := newNodeIndex(snap)
	ends := make([][2]int, len(edges))
	for i, e := range edges {
		ends[i] = [2]int{nodes.id(e.A), nodes.id(e.B)}
	}
	incident := make([][]int, len(nodes.pos))
	for i, ab := range ends {
		if ab[0] == ab[1] {
			continue
		}
		incident[ab[0]] = append(incident[ab[0]], i)
		incident[ab[1]] = append(incident[ab[1]], i)
	}

	used := make([]bool, len(edges))
	for i, ab := range ends {
		if ab[0] == ab[1] {
			used[i] = true
		}
	}

	var rings []geom.Ring
	dropped := 0
	for first := range edges {
		if used[first] {
			continue
		}
		used[first] = true
		start, cur := ends[first][0], ends[first][1]
		ring := geom.Ring{nodes.pos[start]}
		closed := false
		for {
			if cur == start {
				closed = true
				break
			}
			ring = append(ring, nodes.pos[cur])
			next := -1
			for _, e := range incident[cur] {
				if !used[e] {
					next = e
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			if ends[next][0] == cur {
				cur = ends[next][1]
			} else {
				cur = ends[next][0]
			}
		}
		if !closed || len(ring) < 3 {
			dropped++
			continue
		}
		rings = append(rings, append(ring, ring[0]))
	}
	return rings, dropped
}

// nodeIndex merges points that lie within snap of each other.
type nodeIndex struct {
	snap  float64
	pos   []geom.Point
	cells map[[2]int64][]int
}

func newNodeIndex(snap float64) *nodeIndex {
	if snap <= 0 {
		snap = 1e-9
	}
	return &nodeIndex{snap: snap, cells: map[[2]int64][]int{}}
}

func (x *nodeIndex) id(p geom.Point) int {
	kx := int64(math.Floor(p.X / x.snap))
	ky := int64(math.Floor(p.Y / x.snap))
	for dy := int64(-1); dy <= 1; dy++ {
		for dx := int64(-1); dx <= 1; dx++ {
			for _, id := range x.cells[[2]int64{kx + dx, ky + dy}] {
				if x.pos[id].Dist(p) <= x.snap {
					return id
				}
			}
		}
	}
	id := len(x.pos)
	x.pos = append(x.pos, p)
	key := [2]int64{kx, ky}
	x.cells[key] = append(x.cells[key], id)
	return id
}
