// Package render turns generated maps into palette rasters, RGBA pixels and
// PNG files. The ebiten painter lives behind the ebiten build tag.
package render

import (
	"image/color"

	"hydromap/internal/mesh"
)

// Palette indices written by Rasterize.
const (
	IndexOcean   uint8 = 0
	IndexShallow uint8 = 1
	IndexLake    uint8 = 2
	// IndexLand is the lowest of LandBands elevation bands.
	IndexLand  uint8 = 3
	LandBands        = 8
	IndexRiver uint8 = IndexLand + LandBands
)

// Palette is the default colour ramp, indexed by the constants above.
var Palette = []color.RGBA{
	{R: 0x1d, G: 0x3b, B: 0x5c, A: 0xff},
	{R: 0x3a, G: 0x6b, B: 0x8f, A: 0xff},
	{R: 0x4f, G: 0x86, B: 0xb0, A: 0xff},
	{R: 0xc9, G: 0xc0, B: 0x8a, A: 0xff},
	{R: 0x9d, G: 0xb8, B: 0x6a, A: 0xff},
	{R: 0x78, G: 0xa2, B: 0x55, A: 0xff},
	{R: 0x5e, G: 0x8a, B: 0x45, A: 0xff},
	{R: 0x7c, G: 0x7a, B: 0x4e, A: 0xff},
	{R: 0x8f, G: 0x78, B: 0x5a, A: 0xff},
	{R: 0xb0, G: 0xa4, B: 0x98, A: 0xff},
	{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff},
	{R: 0x2f, G: 0x6e, B: 0xa8, A: 0xff},
}

const bandEpsilon = 1e-9

// Classify maps a cell to its palette index.
func Classify(c *mesh.Cell, seaLevel float64) uint8 {
	if c.Height < seaLevel {
		switch {
		case c.Feature == mesh.FeatureLake:
			return IndexLake
		case c.Shallow:
			return IndexShallow
		default:
			return IndexOcean
		}
	}
	span := 1 - seaLevel
	if span <= 0 {
		return IndexLand + LandBands - 1
	}
	// band edges are exact multiples of span/LandBands; absorb rounding below them
	band := int((c.Height-seaLevel)/span*LandBands + bandEpsilon)
	if band >= LandBands {
		band = LandBands - 1
	}
	if band < 0 {
		band = 0
	}
	return IndexLand + uint8(band)
}
