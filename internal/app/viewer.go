package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"hydromap/internal/core"
	"hydromap/internal/hydro"
	"hydromap/internal/render"
)

// Viewer steps a pipeline one stage at a time and keeps the raster of the
// latest state. It holds no ebiten state so the playback logic runs headless.
type Viewer struct {
	cfg  hydro.Config
	pipe *hydro.Pipeline

	last   hydro.StageReport
	ran    int
	err    error
	out    *hydro.Outputs
	raster *core.ByteGrid
}

// NewViewer prepares a pipeline for cfg without running any stage.
func NewViewer(cfg hydro.Config) (*Viewer, error) {
	v := &Viewer{}
	if err := v.Restart(cfg); err != nil {
		return nil, err
	}
	return v, nil
}

// Name labels the HUD panel.
func (v *Viewer) Name() string { return "hydromap" }

// Size returns the map size in pixels.
func (v *Viewer) Size() core.Size { return core.Size{W: v.cfg.Width, H: v.cfg.Height} }

// Config returns the configuration of the current run.
func (v *Viewer) Config() hydro.Config { return v.cfg }

// Parameters exposes the current configuration to the HUD.
func (v *Viewer) Parameters() core.ParameterSnapshot { return v.cfg.Parameters() }

// ParameterControls lists the HUD-adjustable parameters.
func (v *Viewer) ParameterControls() []core.ParameterControl { return v.cfg.ParameterControls() }

// SetIntParameter restarts the run with key changed.
func (v *Viewer) SetIntParameter(key string, value int) bool {
	return v.apply(key, strconv.Itoa(value))
}

// SetFloatParameter restarts the run with key changed.
func (v *Viewer) SetFloatParameter(key string, value float64) bool {
	return v.apply(key, strconv.FormatFloat(value, 'f', -1, 64))
}

func (v *Viewer) apply(key, value string) bool {
	next := v.cfg.Override(map[string]string{key: value})
	if next == v.cfg {
		return false
	}
	return v.Restart(next) == nil
}

// Restart discards the current run and prepares a new one for cfg. An
// invalid cfg leaves the current run untouched.
func (v *Viewer) Restart(cfg hydro.Config) error {
	pipe, err := hydro.NewPipeline(cfg)
	if err != nil {
		return err
	}
	v.cfg = cfg
	v.pipe = pipe
	v.last = hydro.StageReport{}
	v.ran = 0
	v.err = nil
	v.out = pipe.Outputs()
	v.raster = nil
	return nil
}

// Reseed restarts the run with a different seed.
func (v *Viewer) Reseed(seed int64) error {
	cfg := v.cfg
	cfg.Seed = seed
	return v.Restart(cfg)
}

// Done reports whether every stage has run or the run failed.
func (v *Viewer) Done() bool { return v.err != nil || v.pipe.Done() }

// Advance runs the next stage and refreshes the raster. It returns false once
// nothing is left to run.
func (v *Viewer) Advance(ctx context.Context) (bool, error) {
	if v.Done() {
		return false, v.err
	}
	rep, err := v.pipe.Step(ctx)
	if errors.Is(err, hydro.ErrPipelineDone) {
		return false, nil
	}
	if err != nil {
		v.err = err
		return false, err
	}
	v.last = rep
	v.ran++
	v.out = v.pipe.Outputs()
	if g := v.pipe.Graph(); g != nil {
		v.raster = render.Rasterize(v.out.Cells, g, v.Size(), v.cfg.Params.SeaLevel)
	}
	return true, nil
}

// Finish runs every remaining stage.
func (v *Viewer) Finish(ctx context.Context) error {
	for {
		more, err := v.Advance(ctx)
		if err != nil || !more {
			return err
		}
	}
}

// Outputs returns the state after the last completed stage.
func (v *Viewer) Outputs() *hydro.Outputs { return v.out }

// Raster returns the palette raster of the latest state, or nil before the
// graph exists.
func (v *Viewer) Raster() *core.ByteGrid { return v.raster }

// Status describes the run for the HUD.
func (v *Viewer) Status() string {
	switch {
	case v.err != nil:
		return "failed: " + v.err.Error()
	case v.ran == 0:
		return fmt.Sprintf("seed %d, %d stages pending", v.cfg.Seed, len(hydro.Stages))
	default:
		return fmt.Sprintf("%d/%d %s: %s", v.ran, len(hydro.Stages), v.last.Stage, v.last.Summary)
	}
}
