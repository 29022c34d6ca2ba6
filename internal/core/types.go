package core

// Size describes the pixel dimensions of a generated map.
type Size struct {
	W int
	H int
}

// Area returns W*H, or zero for degenerate sizes.
func (s Size) Area() int {
	if s.W <= 0 || s.H <= 0 {
		return 0
	}
	return s.W * s.H
}
