//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"hydromap/internal/geom"
	"hydromap/internal/hydro"
	"hydromap/internal/mesh"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

type outputsProvider interface {
	Outputs() *hydro.Outputs
}

var (
	islandCoast = color.RGBA{R: 250, G: 245, B: 225, A: 220}
	lakeCoast   = color.RGBA{R: 150, G: 220, B: 250, A: 220}
	kindColors  = map[hydro.RiverKind]color.RGBA{
		hydro.RiverSource:  {R: 120, G: 255, B: 140, A: 255},
		hydro.RiverCourse:  {R: 90, G: 170, B: 255, A: 200},
		hydro.RiverDelta:   {R: 255, G: 200, B: 60, A: 255},
		hydro.RiverEstuary: {R: 255, G: 110, B: 90, A: 255},
	}
)

// Overlay draws optional debugging layers over the map: precipitation (1),
// flux (2), coastline rings (3) and river points by kind (4).
type Overlay struct {
	model  Model
	scale  int
	precip bool
	flux   bool
	coasts bool
	points bool
}

// NewOverlay constructs an overlay for m drawn at scale.
func NewOverlay(m Model, scale int) *Overlay {
	return &Overlay{model: m, scale: max(scale, 1)}
}

// Update toggles layers from the number keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.precip = !o.precip
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.flux = !o.flux
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.coasts = !o.coasts
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit4) {
		o.points = !o.points
	}
}

// Draw renders the enabled layers.
func (o *Overlay) Draw(screen *ebiten.Image) {
	provider, ok := o.model.(outputsProvider)
	if !ok {
		return
	}
	out := provider.Outputs()
	if out == nil || len(out.Cells) == 0 {
		return
	}
	dot := o.cellRadius(out)
	if o.precip {
		o.drawPrecipitation(screen, out.Cells, dot)
	}
	if o.flux {
		o.drawFlux(screen, out.Cells, dot)
	}
	if o.coasts {
		for _, r := range out.CoastIslands {
			o.drawRing(screen, r, islandCoast)
		}
		for _, r := range out.CoastLakes {
			o.drawRing(screen, r, lakeCoast)
		}
	}
	if o.points {
		s := float32(o.scale)
		for _, pt := range out.Rivers {
			vector.DrawFilledCircle(screen, float32(pt.X)*s, float32(pt.Y)*s, s*1.5, kindColors[pt.Kind], true)
		}
	}
}

// cellRadius estimates half the site spacing in screen pixels.
func (o *Overlay) cellRadius(out *hydro.Outputs) float32 {
	spacing := math.Sqrt(float64(out.Width*out.Height) / float64(len(out.Cells)))
	return float32(spacing*0.5) * float32(o.scale)
}

func (o *Overlay) drawPrecipitation(screen *ebiten.Image, cells []mesh.Cell, r float32) {
	peak := 0.0
	for i := range cells {
		peak = math.Max(peak, cells[i].Precipitation)
	}
	if peak <= 0 {
		return
	}
	s := float32(o.scale)
	for i := range cells {
		c := &cells[i]
		col := rampColor(precipitationRamp, c.Precipitation/peak)
		vector.DrawFilledCircle(screen, float32(c.X)*s, float32(c.Y)*s, r, col, false)
	}
}

func (o *Overlay) drawFlux(screen *ebiten.Image, cells []mesh.Cell, r float32) {
	peak := 0.0
	for i := range cells {
		if cells[i].Feature == mesh.FeatureIsland {
			peak = math.Max(peak, cells[i].Flux)
		}
	}
	if peak <= 0 {
		return
	}
	s := float32(o.scale)
	logPeak := math.Log1p(peak)
	for i := range cells {
		c := &cells[i]
		if c.Feature != mesh.FeatureIsland {
			continue
		}
		t := math.Log1p(c.Flux) / logPeak
		vector.DrawFilledCircle(screen, float32(c.X)*s, float32(c.Y)*s, r*float32(0.3+0.7*t), rampColor(fluxRamp, t), true)
	}
}

func (o *Overlay) drawRing(screen *ebiten.Image, ring geom.Ring, col color.RGBA) {
	s := float32(o.scale)
	for i := 1; i < len(ring); i++ {
		a, b := ring[i-1], ring[i]
		vector.StrokeLine(screen, float32(a.X)*s, float32(a.Y)*s, float32(b.X)*s, float32(b.Y)*s, s, col, true)
	}
}
