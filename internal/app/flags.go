package app

import (
	"flag"

	"hydromap/internal/hydro"
	entrypoint "hydromap/internal/platform/cmd"
)

// Config represents the command-line parameters of the viewer.
type Config struct {
	Width     int     `env:"HYDROMAP_WIDTH" envDefault:"640"`
	Height    int     `env:"HYDROMAP_HEIGHT" envDefault:"360"`
	Seed      int64   `env:"HYDROMAP_SEED" envDefault:"1234"`
	Scale     int     `env:"HYDROVIEW_SCALE" envDefault:"2"`
	TPS       int     `env:"HYDROVIEW_TPS" envDefault:"60"`
	StageRate float64 `env:"HYDROVIEW_STAGE_RATE" envDefault:"3"`
	HUDWidth  int     `env:"HYDROVIEW_HUD_WIDTH" envDefault:"260"`

	Overrides entrypoint.KVList
}

// ParseConfig loads env defaults, then binds and parses flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var c Config
	if err := entrypoint.ParseConfig(&c); err != nil {
		return Config{}, err
	}
	c.Bind(fs)
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "map width")
	fs.IntVar(&c.Height, "h", c.Height, "map height")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "generation seed")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Float64Var(&c.StageRate, "stage-rate", c.StageRate, "stages played back per second")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels, 0 hides it")
	fs.Var(&c.Overrides, "set", "parameter override in key=value form (repeatable)")
}

// HydroConfig resolves the generation config the viewer starts with.
func (c Config) HydroConfig() hydro.Config {
	base := hydro.DefaultConfig()
	base.Width = c.Width
	base.Height = c.Height
	base.Seed = c.Seed
	return base.Override(c.Overrides.Map())
}
