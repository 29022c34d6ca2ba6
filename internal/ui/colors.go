package ui

import (
	"image/color"
	"math"
)

type colorStop struct {
	t   float64
	col color.RGBA
}

// precipitationRamp runs from dry to wet.
var precipitationRamp = []colorStop{
	{0.0, color.RGBA{R: 190, G: 150, B: 80, A: 40}},
	{0.35, color.RGBA{R: 120, G: 170, B: 110, A: 110}},
	{0.7, color.RGBA{R: 60, G: 140, B: 200, A: 160}},
	{1.0, color.RGBA{R: 40, G: 70, B: 190, A: 200}},
}

// fluxRamp tints accumulated flux from faint to bright blue.
var fluxRamp = []colorStop{
	{0.0, color.RGBA{R: 80, G: 170, B: 230, A: 0}},
	{0.4, color.RGBA{R: 90, G: 190, B: 240, A: 120}},
	{1.0, color.RGBA{R: 210, G: 245, B: 255, A: 230}},
}

func rampColor(stops []colorStop, t float64) color.RGBA {
	t = clamp01(t)
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t > curr.t {
			continue
		}
		prev := stops[i-1]
		var local float64
		if span := curr.t - prev.t; span > 0 {
			local = (t - prev.t) / span
		}
		return lerpRGBA(prev.col, curr.col, local)
	}
	return stops[len(stops)-1].col
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
