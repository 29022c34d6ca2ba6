//go:build ebiten

package app

import (
	"context"
	"image/color"
	"log"
	"time"

	"hydromap/internal/core"
	"hydromap/internal/geom"
	"hydromap/internal/render"
	"hydromap/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	riverShadow = color.RGBA{R: 0x1a, G: 0x3a, B: 0x5a, A: 0xb0}
	riverColor  = render.Palette[render.IndexRiver]
)

// Game plays a generation run back stage by stage through ebiten.
type Game struct {
	viewer  *Viewer
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	timer   *core.FixedStep

	scale    int
	hudWidth int
	paused   bool
	stepOnce bool
}

// New constructs a Game around v.
func New(v *Viewer, cfg Config) *Game {
	size := v.Size()
	scale := max(cfg.Scale, 1)
	return &Game{
		viewer:   v,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(v, scale),
		hud:      ui.NewHUD(v, cfg.HUDWidth),
		timer:    core.NewFixedStep(cfg.StageRate),
		scale:    scale,
		hudWidth: max(cfg.HUDWidth, 0),
	}
}

// Update handles input and advances playback.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.stepOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.report(g.viewer.Finish(context.Background()))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.report(g.viewer.Restart(g.viewer.Config()))
		g.timer.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.report(g.viewer.Reseed(time.Now().UnixNano()))
		g.timer.Reset()
	}

	g.overlay.Update()
	g.hud.Update(g.viewer.Size().W * g.scale)

	due := g.timer.ShouldStep()
	if (!g.paused && due) || g.stepOnce {
		_, err := g.viewer.Advance(context.Background())
		g.report(err)
		g.stepOnce = false
	}
	return nil
}

func (g *Game) report(err error) {
	if err != nil {
		log.Printf("hydroview: %v", err)
	}
}

// Draw renders the raster, the rivers and the overlays.
func (g *Game) Draw(screen *ebiten.Image) {
	if raster := g.viewer.Raster(); raster != nil {
		g.painter.Blit(screen, raster.Cells(), render.Palette, g.scale)
	}
	g.drawRivers(screen)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.viewer.Size().W*g.scale, g.scale)
}

func (g *Game) drawRivers(screen *ebiten.Image) {
	out := g.viewer.Outputs()
	if out == nil || len(out.RiverSegments) == 0 {
		return
	}
	s := float32(g.scale)
	stroke := func(b geom.Bezier, width float64, clr color.Color) {
		const steps = 8
		prev := b.P0
		for i := 1; i <= steps; i++ {
			p := b.At(float64(i) / steps)
			vector.StrokeLine(screen, float32(prev.X)*s, float32(prev.Y)*s, float32(p.X)*s, float32(p.Y)*s,
				float32(width)*s, clr, true)
			prev = p
		}
	}
	for _, b := range out.RiverSegments {
		stroke(b, b.ShadowWidth, riverShadow)
	}
	for _, b := range out.RiverSegments {
		stroke(b, b.Width, riverColor)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.viewer.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
