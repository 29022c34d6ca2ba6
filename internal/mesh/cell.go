package mesh

import (
	"fmt"

	"hydromap/internal/geom"
)

// NoCell marks an absent neighbor (a map-boundary edge) or an absent cell
// reference.
const NoCell = -1

// NoRiver marks a cell that carries no river.
const NoRiver = -1

// Feature enumerates the water/land component a cell belongs to.
type Feature uint8

const (
	FeatureUnset Feature = iota
	FeatureOcean
	FeatureIsland
	FeatureLake
)

var featureNames = [...]string{"", "ocean", "island", "lake"}

func (f Feature) String() string {
	if int(f) < len(featureNames) {
		return featureNames[f]
	}
	return fmt.Sprintf("feature(%d)", uint8(f))
}

// MarshalText encodes the feature as its lower-case name.
func (f Feature) MarshalText() ([]byte, error) {
	if int(f) >= len(featureNames) {
		return nil, fmt.Errorf("unknown feature %d", uint8(f))
	}
	return []byte(featureNames[f]), nil
}

// UnmarshalText decodes a lower-case feature name.
func (f *Feature) UnmarshalText(b []byte) error {
	for i, name := range featureNames {
		if name == string(b) {
			*f = Feature(i)
			return nil
		}
	}
	return fmt.Errorf("unknown feature %q", b)
}

// Cell is one Voronoi region of the map together with the hydrology state
// every stage mutates in place.
type Cell struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`

	// Polygon is the clipped Voronoi ring without a repeated closing vertex.
	Polygon []geom.Point `json:"polygon"`
	// Neighbors is aligned with Polygon: Neighbors[i] is the cell across the
	// edge Polygon[i] -> Polygon[i+1], or NoCell on the map boundary.
	Neighbors []int `json:"neighbors"`

	Height        float64 `json:"height"`
	Precipitation float64 `json:"precipitation"`
	Flux          float64 `json:"flux"`
	Feature       Feature `json:"feature"`
	FeatureNumber int     `json:"featureNumber"`
	River         int     `json:"river"`
	Shallow       bool    `json:"shallow,omitempty"`
}

// Site returns the cell centre.
func (c *Cell) Site() geom.Point { return geom.Point{X: c.X, Y: c.Y} }

// HasRiver reports whether a river id is assigned.
func (c *Cell) HasRiver() bool { return c.River != NoRiver }

// OnBoundary reports whether any polygon edge lies on the map boundary.
func (c *Cell) OnBoundary() bool {
	for _, n := range c.Neighbors {
		if n == NoCell {
			return true
		}
	}
	return false
}

// Degree returns the number of present neighbors.
func (c *Cell) Degree() int {
	d := 0
	for _, n := range c.Neighbors {
		if n != NoCell {
			d++
		}
	}
	return d
}

// SetHeight stores h clamped to [0, 1].
func (c *Cell) SetHeight(h float64) {
	c.Height = Clamp01(h)
}

// ResetState clears everything but the geometry.
func (c *Cell) ResetState() {
	c.Height = 0
	c.Precipitation = 0
	c.Flux = 0
	c.Feature = FeatureUnset
	c.FeatureNumber = 0
	c.River = NoRiver
	c.Shallow = false
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
