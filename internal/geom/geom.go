// Package geom holds the small 2D value types shared by the mesh, the
// hydrology stages and the render layer.
package geom

import "math"

// Point is a 2D position in map units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (a Point) Add(b Point) Point     { return Point{a.X + b.X, a.Y + b.Y} }
func (a Point) Sub(b Point) Point     { return Point{a.X - b.X, a.Y - b.Y} }
func (a Point) Mul(s float64) Point   { return Point{a.X * s, a.Y * s} }
func (a Point) Dot(b Point) float64   { return a.X*b.X + a.Y*b.Y }
func (a Point) Len2() float64         { return a.Dot(a) }
func (a Point) Len() float64          { return math.Sqrt(a.Len2()) }
func (a Point) Dist(b Point) float64  { return a.Sub(b).Len() }
func (a Point) Dist2(b Point) float64 { return a.Sub(b).Len2() }

// Lerp interpolates between a and b.
func (a Point) Lerp(b Point, t float64) Point {
	return Point{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Segment is an undirected edge between two points.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Midpoint returns the centre of the segment.
func (s Segment) Midpoint() Point { return s.A.Lerp(s.B, 0.5) }

// Len returns the segment length.
func (s Segment) Len() float64 { return s.A.Dist(s.B) }

// Ring is an ordered closed boundary. Closed rings repeat the first point at
// the end.
type Ring []Point

// Closed reports whether the ring ends where it starts.
func (r Ring) Closed() bool {
	return len(r) > 1 && r[0] == r[len(r)-1]
}

// Vertices returns the number of distinct positions, ignoring the closing
// repeat.
func (r Ring) Vertices() int {
	if r.Closed() {
		return len(r) - 1
	}
	return len(r)
}

// Area returns the signed shoelace area; positive for counter-clockwise rings
// in a y-up frame.
func (r Ring) Area() float64 {
	n := r.Vertices()
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		a := r[i]
		b := r[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Bezier is one cubic river segment with its stroke widths.
type Bezier struct {
	P0          Point   `json:"p0"`
	C1          Point   `json:"c1"`
	C2          Point   `json:"c2"`
	P1          Point   `json:"p1"`
	Width       float64 `json:"width"`
	ShadowWidth float64 `json:"shadowWidth"`
	River       int     `json:"river"`
}

// At evaluates the curve at t in [0, 1].
func (b Bezier) At(t float64) Point {
	u := 1 - t
	w0 := u * u * u
	w1 := 3 * u * u * t
	w2 := 3 * u * t * t
	w3 := t * t * t
	return Point{
		X: w0*b.P0.X + w1*b.C1.X + w2*b.C2.X + w3*b.P1.X,
		Y: w0*b.P0.Y + w1*b.C1.Y + w2*b.C2.Y + w3*b.P1.Y,
	}
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether p lies inside the closed box.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Corners returns the box corners in winding order starting at the minimum.
func (r Rect) Corners() []Point {
	return []Point{
		{r.MinX, r.MinY},
		{r.MaxX, r.MinY},
		{r.MaxX, r.MaxY},
		{r.MinX, r.MaxY},
	}
}
