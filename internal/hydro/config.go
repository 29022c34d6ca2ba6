package hydro

import (
	"fmt"
	"math"
	"strconv"

	"hydromap/internal/mesh"
)

// ErrInvalidConfiguration is returned for parameters that cannot produce a
// map. It wraps the same sentinel the mesh sampler uses.
var ErrInvalidConfiguration = mesh.ErrInvalidConfiguration

// Winds selects the boundary winds that carry precipitation inland.
type Winds struct {
	North bool
	East  bool
	South bool
	West  bool
	// Randomize ignores the flags and rolls each wind independently.
	Randomize bool
}

// Params holds the tunables of a generation run. The first block mirrors the
// user-facing inputs; the rest are thresholds and loop caps.
type Params struct {
	PoissonRadius float64
	Precip        float64
	Downcut       float64
	SeaLevel      float64
	Winds         Winds

	SamplerTries int
	MaxGridCells int

	IslandHeight       float64
	IslandRadius       float64
	IslandSharpness    float64
	IslandJitter       float64
	HillCount          int
	HillAttempts       int
	HillHeightMin      float64
	HillHeightMax      float64
	HillRadius         float64
	HillSharpness      float64
	HillMaxStartHeight float64
	DecayThreshold     float64

	WindChance         float64
	RayStep            float64
	RayJitter          float64
	WestRayJitter      float64
	OrographicHeight   float64
	WaterPrecipitation float64
	WaterFlux          float64

	DepressionEpsilon float64
	DepressionPassCap int

	OceanSeed int

	CoastSnap float64

	RiverSourceFlux   float64
	DeltaFlux         float64
	EstuaryNudge      float64
	TargetPrecipShare float64
	RiverCutFlux      float64

	RiverBaseWidth   float64
	RiverFluxWidth   float64
	RiverLengthWidth float64
	RiverShadowScale float64
}

// Config is the full input of a run: map size, seed and parameters.
type Config struct {
	Width  int
	Height int

	Seed int64

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  640,
		Height: 360,
		Seed:   1234,
		Params: DefaultParams(),
	}
}

// DefaultParams returns the standard tunables.
func DefaultParams() Params {
	return Params{
		PoissonRadius: 4,
		Precip:        7,
		Downcut:       0.1,
		SeaLevel:      0.2,
		Winds:         Winds{Randomize: true},

		SamplerTries: mesh.DefaultSamplerTries,
		MaxGridCells: mesh.DefaultMaxGridCells,

		IslandHeight:       0.9,
		IslandRadius:       0.85,
		IslandSharpness:    0.2,
		IslandJitter:       0.1,
		HillCount:          10,
		HillAttempts:       50,
		HillHeightMin:      0.1,
		HillHeightMax:      0.4,
		HillRadius:         0.99,
		HillSharpness:      0.2,
		HillMaxStartHeight: 0.6,
		DecayThreshold:     0.01,

		WindChance:         0.75,
		RayStep:            5,
		RayJitter:          5,
		WestRayJitter:      10,
		OrographicHeight:   0.6,
		WaterPrecipitation: 0.01,
		WaterFlux:          0.02,

		DepressionEpsilon: 0.01,
		DepressionPassCap: 100,

		OceanSeed: mesh.NoCell,

		CoastSnap: 1e-6,

		RiverSourceFlux:   0.6,
		DeltaFlux:         15,
		EstuaryNudge:      0.1,
		TargetPrecipShare: 0.9,
		RiverCutFlux:      0.03,

		RiverBaseWidth:   0.4,
		RiverFluxWidth:   0.25,
		RiverLengthWidth: 0.002,
		RiverShadowScale: 1.6,
	}
}

// Validate rejects configurations no stage can work with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: map size %dx%d must be positive", ErrInvalidConfiguration, c.Width, c.Height)
	}
	p := c.Params
	if p.PoissonRadius <= 0 || math.IsNaN(p.PoissonRadius) {
		return fmt.Errorf("%w: poisson radius %g must be positive", ErrInvalidConfiguration, p.PoissonRadius)
	}
	if p.SeaLevel < 0 || p.SeaLevel > 1 {
		return fmt.Errorf("%w: sea level %g outside [0,1]", ErrInvalidConfiguration, p.SeaLevel)
	}
	if p.RayStep <= 0 {
		return fmt.Errorf("%w: ray step %g must be positive", ErrInvalidConfiguration, p.RayStep)
	}
	if p.DepressionPassCap <= 0 {
		return fmt.Errorf("%w: depression pass cap %d must be positive", ErrInvalidConfiguration, p.DepressionPassCap)
	}
	if p.DecayThreshold <= 0 {
		return fmt.Errorf("%w: decay threshold %g must be positive", ErrInvalidConfiguration, p.DecayThreshold)
	}
	if p.IslandRadius >= 1 || p.HillRadius >= 1 {
		return fmt.Errorf("%w: blob radius must stay below 1 for the spread to decay", ErrInvalidConfiguration)
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unknown keys and unparsable values are ignored.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	p := &c.Params
	for key, v := range cfg {
		if dst, ok := p.floatFields()[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(parsed) {
				*dst = parsed
			}
			continue
		}
		if dst, ok := p.intFields()[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
				*dst = parsed
			}
			continue
		}
		if dst, ok := p.boolFields()[key]; ok {
			if parsed, err := strconv.ParseBool(v); err == nil {
				*dst = parsed
			}
		}
	}
	if _, explicit := cfg["winds_randomize"]; !explicit {
		for _, k := range []string{"wind_n", "wind_e", "wind_s", "wind_w"} {
			if _, ok := cfg[k]; ok {
				p.Winds.Randomize = false
				break
			}
		}
	}
	if p.HillHeightMax < p.HillHeightMin {
		p.HillHeightMax = p.HillHeightMin
	}
	if v, ok := cfg["ocean_seed"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			p.OceanSeed = parsed
		}
	}
	return c
}

func (p *Params) floatFields() map[string]*float64 {
	return map[string]*float64{
		"poisson_radius":      &p.PoissonRadius,
		"precip":              &p.Precip,
		"downcut":             &p.Downcut,
		"sea_level":           &p.SeaLevel,
		"island_height":       &p.IslandHeight,
		"island_radius":       &p.IslandRadius,
		"island_sharpness":    &p.IslandSharpness,
		"island_jitter":       &p.IslandJitter,
		"hill_height_min":     &p.HillHeightMin,
		"hill_height_max":     &p.HillHeightMax,
		"hill_radius":         &p.HillRadius,
		"hill_sharpness":      &p.HillSharpness,
		"hill_max_start":      &p.HillMaxStartHeight,
		"decay_threshold":     &p.DecayThreshold,
		"wind_chance":         &p.WindChance,
		"ray_step":            &p.RayStep,
		"ray_jitter":          &p.RayJitter,
		"west_ray_jitter":     &p.WestRayJitter,
		"orographic_height":   &p.OrographicHeight,
		"water_precipitation": &p.WaterPrecipitation,
		"water_flux":          &p.WaterFlux,
		"depression_epsilon":  &p.DepressionEpsilon,
		"coast_snap":          &p.CoastSnap,
		"river_source_flux":   &p.RiverSourceFlux,
		"delta_flux":          &p.DeltaFlux,
		"estuary_nudge":       &p.EstuaryNudge,
		"target_precip_share": &p.TargetPrecipShare,
		"river_cut_flux":      &p.RiverCutFlux,
		"river_base_width":    &p.RiverBaseWidth,
		"river_flux_width":    &p.RiverFluxWidth,
		"river_length_width":  &p.RiverLengthWidth,
		"river_shadow_scale":  &p.RiverShadowScale,
	}
}

func (p *Params) intFields() map[string]*int {
	return map[string]*int{
		"sampler_tries":       &p.SamplerTries,
		"max_grid_cells":      &p.MaxGridCells,
		"hill_count":          &p.HillCount,
		"hill_attempts":       &p.HillAttempts,
		"depression_pass_cap": &p.DepressionPassCap,
	}
}

func (p *Params) boolFields() map[string]*bool {
	return map[string]*bool{
		"wind_n":          &p.Winds.North,
		"wind_e":          &p.Winds.East,
		"wind_s":          &p.Winds.South,
		"wind_w":          &p.Winds.West,
		"winds_randomize": &p.Winds.Randomize,
	}
}

func (p Params) meshConfig(width, height int) mesh.Config {
	return mesh.Config{
		Width:        float64(width),
		Height:       float64(height),
		Radius:       p.PoissonRadius,
		SamplerTries: p.SamplerTries,
		MaxGridCells: p.MaxGridCells,
	}
}
