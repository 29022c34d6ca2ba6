//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"hydromap/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Model is what the HUD and overlay need from the running generation.
type Model interface {
	Name() string
	Size() core.Size
	Parameters() core.ParameterSnapshot
}

type statusProvider interface {
	Status() string
}

var (
	panelColor  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor  = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor  = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonColor = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonOff   = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	glyphColor  = color.RGBA{R: 230, G: 230, B: 240, A: 255}
	glyphOff    = color.RGBA{R: 120, G: 120, B: 130, A: 255}
)

// HUD renders the parameter panel to the right of the map. Clicking a +/-
// button restarts generation with the stepped value.
type HUD struct {
	model      Model
	width      int
	panel      *ebiten.Image
	lastHeight int
	title      string
	status     string

	controls     []hudControlState
	intSetter    core.IntParameterSetter
	floatSetter  core.FloatParameterSetter
	panelOffsetX int

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for m with the given panel width.
func NewHUD(m Model, width int) *HUD {
	h := &HUD{model: m, width: max(width, 0), title: "Controls"}
	if name := m.Name(); name != "" {
		h.title = name + " controls"
	}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if provider, ok := m.(core.ParameterControlsProvider); ok {
		for _, ctrl := range provider.ParameterControls() {
			h.controls = append(h.controls, hudControlState{control: ctrl, value: "--"})
		}
		h.layoutControls()
	}
	h.intSetter, _ = m.(core.IntParameterSetter)
	h.floatSetter, _ = m.(core.FloatParameterSetter)
	return h
}

// Update refreshes control values from the model and handles clicks.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.refreshControlValues(h.model.Parameters())
	if sp, ok := h.model.(statusProvider); ok {
		h.status = sp.Status()
	}
	h.handleInput()
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.model.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelColor)
	h.drawControls()
	h.drawStatus(height)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) refreshControlValues(snapshot core.ParameterSnapshot) {
	for i := range h.controls {
		state := &h.controls[i]
		state.hasValue = false
		state.value = "--"
		param, ok := snapshot.Lookup(state.control.Key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			continue
		}
		state.current = parsed
		state.hasValue = true
		if state.control.Type == core.ParamTypeInt {
			state.value = param.Value
		} else {
			state.value = formatFloat(state.control, parsed)
		}
	}
}

func (h *HUD) handleInput() {
	if len(h.controls) == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	px := mx - h.panelOffsetX
	if px < 0 {
		return
	}
	pt := image.Pt(px, my)
	for i := range h.controls {
		state := &h.controls[i]
		switch {
		case pt.In(state.minusRect):
			h.apply(state, -1)
			return
		case pt.In(state.plusRect):
			h.apply(state, 1)
			return
		}
	}
}

func (h *HUD) apply(state *hudControlState, direction int) {
	target, ok := h.target(state, direction)
	if !ok {
		return
	}
	var applied bool
	if state.control.Type == core.ParamTypeInt {
		applied = h.intSetter.SetIntParameter(state.control.Key, int(target))
	} else {
		applied = h.floatSetter.SetFloatParameter(state.control.Key, target)
	}
	if applied {
		state.current = target
	}
}

// target returns the value one step away, clamped to the control bounds. It
// fails when no setter accepts the type or the value would not change.
func (h *HUD) target(state *hudControlState, direction int) (float64, bool) {
	if !state.hasValue || direction == 0 {
		return 0, false
	}
	ctrl := state.control
	step := ctrl.Step
	switch ctrl.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return 0, false
		}
		step = math.Max(math.Round(step), 1)
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return 0, false
		}
		if step <= 0 {
			step = 0.05
		}
	default:
		return 0, false
	}
	t := state.current + float64(direction)*step
	if ctrl.HasMin {
		t = math.Max(t, ctrl.Min)
	}
	if ctrl.HasMax {
		t = math.Min(t, ctrl.Max)
	}
	if ctrl.Type == core.ParamTypeFloat {
		// snap to the step grid
		t = math.Round(t/step) * step
	}
	if math.Abs(t-state.current) < 1e-9 {
		return 0, false
	}
	return t, true
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	headerY := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, headerY, titleColor)
	if len(h.controls) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, headerY+infoSpacing, mutedColor)
		return
	}
	for i := range h.controls {
		state := &h.controls[i]
		baseline := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, baseline, labelColor)

		valueColor := labelColor
		if !state.hasValue {
			valueColor = mutedColor
		}
		valueX := state.minusRect.Min.X - buttonGap - text.BoundString(face, state.value).Dx()
		text.Draw(h.panel, state.value, face, valueX, baseline, valueColor)

		_, minusOK := h.target(state, -1)
		_, plusOK := h.target(state, 1)
		h.drawButton(state.minusRect, "-", minusOK)
		h.drawButton(state.plusRect, "+", plusOK)
	}
}

// drawStatus wraps the run status into the space under the controls.
func (h *HUD) drawStatus(height int) {
	if h.status == "" {
		return
	}
	face := basicfont.Face7x13
	perLine := max((h.width-2*panelPadding)/7, 1)
	y := controlsTop + len(h.controls)*lineHeight + statusSpacing
	for _, line := range wrap(h.status, perLine) {
		if y > height-panelPadding {
			return
		}
		text.Draw(h.panel, line, face, panelPadding, y, mutedColor)
		y += statusLineHeight
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg, fg := buttonColor, glyphColor
	if !enabled {
		bg, fg = buttonOff, glyphOff
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	for i := range h.controls {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
		h.controls[i].top = top
		h.controls[i].minusRect = minus
		h.controls[i].plusRect = plus
	}
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	precision := 1
	switch step := ctrl.Step; {
	case step <= 0:
		precision = 2
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

type hudControlState struct {
	control  core.ParameterControl
	value    string
	current  float64
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding     = 12
	lineHeight       = 36
	buttonSize       = 24
	buttonGap        = 6
	headerBaseline   = 18
	labelBaseline    = 24
	infoSpacing      = 36
	statusSpacing    = 18
	statusLineHeight = 15
	controlsTop      = panelPadding + headerBaseline + 14
)
