package hydro

import "hydromap/internal/core"

// Parameters lists every tunable under the key FromMap accepts for it.
func (c Config) Parameters() core.ParameterSnapshot {
	p := c.Params
	groups := []core.ParameterGroup{
		{
			Name: "Map",
			Params: []core.Parameter{
				core.IntParam("w", "Width", c.Width),
				core.IntParam("h", "Height", c.Height),
				core.Int64Param("seed", "Seed", c.Seed),
				core.FloatParam("poisson_radius", "Poisson radius", p.PoissonRadius),
				core.IntParam("sampler_tries", "Sampler tries", p.SamplerTries),
				core.IntParam("max_grid_cells", "Max sampler grid cells", p.MaxGridCells),
			},
		},
		{
			Name: "Heights",
			Params: []core.Parameter{
				core.FloatParam("sea_level", "Sea level", p.SeaLevel),
				core.FloatParam("island_height", "Island height", p.IslandHeight),
				core.FloatParam("island_radius", "Island radius", p.IslandRadius),
				core.FloatParam("island_sharpness", "Island sharpness", p.IslandSharpness),
				core.FloatParam("island_jitter", "Island center jitter", p.IslandJitter),
				core.IntParam("hill_count", "Hill count", p.HillCount),
				core.IntParam("hill_attempts", "Hill placement attempts", p.HillAttempts),
				core.FloatParam("hill_height_min", "Hill height min", p.HillHeightMin),
				core.FloatParam("hill_height_max", "Hill height max", p.HillHeightMax),
				core.FloatParam("hill_radius", "Hill radius", p.HillRadius),
				core.FloatParam("hill_sharpness", "Hill sharpness", p.HillSharpness),
				core.FloatParam("hill_max_start", "Hill max start height", p.HillMaxStartHeight),
				core.FloatParam("decay_threshold", "Blob decay threshold", p.DecayThreshold),
				core.FloatParam("downcut", "Coastline downcut", p.Downcut),
			},
		},
		{
			Name:    "Climate",
			Summary: "Wind rays deposit precipitation until they leave the map or hit high ground.",
			Params: []core.Parameter{
				core.FloatParam("precip", "Precipitation", p.Precip),
				core.BoolParam("wind_n", "North wind", p.Winds.North),
				core.BoolParam("wind_e", "East wind", p.Winds.East),
				core.BoolParam("wind_s", "South wind", p.Winds.South),
				core.BoolParam("wind_w", "West wind", p.Winds.West),
				core.BoolParam("winds_randomize", "Randomize winds", p.Winds.Randomize),
				core.FloatParam("wind_chance", "Wind chance", p.WindChance),
				core.FloatParam("ray_step", "Ray step", p.RayStep),
				core.FloatParam("ray_jitter", "Ray jitter", p.RayJitter),
				core.FloatParam("west_ray_jitter", "West ray jitter", p.WestRayJitter),
				core.FloatParam("orographic_height", "Orographic height", p.OrographicHeight),
				core.FloatParam("water_precipitation", "Water precipitation", p.WaterPrecipitation),
				core.FloatParam("water_flux", "Water flux", p.WaterFlux),
			},
		},
		{
			Name: "Drainage",
			Params: []core.Parameter{
				core.FloatParam("depression_epsilon", "Depression epsilon", p.DepressionEpsilon),
				core.IntParam("depression_pass_cap", "Depression pass cap", p.DepressionPassCap),
				core.IntParam("ocean_seed", "Ocean seed cell", p.OceanSeed),
				core.FloatParam("coast_snap", "Coast snap distance", p.CoastSnap),
			},
		},
		{
			Name: "Rivers",
			Params: []core.Parameter{
				core.FloatParam("river_source_flux", "River source flux", p.RiverSourceFlux),
				core.FloatParam("delta_flux", "Delta flux", p.DeltaFlux),
				core.FloatParam("estuary_nudge", "Estuary nudge", p.EstuaryNudge),
				core.FloatParam("target_precip_share", "Downstream precipitation share", p.TargetPrecipShare),
				core.FloatParam("river_cut_flux", "River downcut flux", p.RiverCutFlux),
				core.FloatParam("river_base_width", "River base width", p.RiverBaseWidth),
				core.FloatParam("river_flux_width", "River flux width", p.RiverFluxWidth),
				core.FloatParam("river_length_width", "River length width", p.RiverLengthWidth),
				core.FloatParam("river_shadow_scale", "River shadow scale", p.RiverShadowScale),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// Override returns a copy of c with the key=value pairs applied on top of its
// current values. Keys are the ones listed by Parameters.
func (c Config) Override(kv map[string]string) Config {
	values := map[string]string{}
	for _, g := range c.Parameters().Groups {
		for _, p := range g.Params {
			values[p.Key] = p.Value
		}
	}
	for k, v := range kv {
		values[k] = v
	}
	if _, ok := kv["winds_randomize"]; !ok {
		for _, k := range []string{"wind_n", "wind_e", "wind_s", "wind_w"} {
			if _, set := kv[k]; set {
				values["winds_randomize"] = "false"
				break
			}
		}
	}
	return FromMap(values)
}

// ParameterControls lists the parameters the viewer lets users step.
func (c Config) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Step: 1},
		{Key: "poisson_radius", Label: "Poisson radius", Type: core.ParamTypeFloat, Step: 0.5, Min: 2, HasMin: true, Max: 20, HasMax: true},
		{Key: "sea_level", Label: "Sea level", Type: core.ParamTypeFloat, Step: 0.02, Min: 0, HasMin: true, Max: 0.9, HasMax: true},
		{Key: "precip", Label: "Precipitation", Type: core.ParamTypeFloat, Step: 0.5, Min: 0, HasMin: true, Max: 30, HasMax: true},
		{Key: "downcut", Label: "Downcut", Type: core.ParamTypeFloat, Step: 0.02, Min: 0, HasMin: true, Max: 0.5, HasMax: true},
		{Key: "hill_count", Label: "Hills", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true, Max: 60, HasMax: true},
		{Key: "river_source_flux", Label: "River source flux", Type: core.ParamTypeFloat, Step: 0.1, Min: 0.1, HasMin: true, Max: 10, HasMax: true},
	}
}
