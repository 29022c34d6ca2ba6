// Package generate parses the hydromap command configuration and runs one
// terrain generation, writing JSON and optionally a PNG preview.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"hydromap/internal/hydro"
	entrypoint "hydromap/internal/platform/cmd"
	"hydromap/internal/render"
)

// Config holds hydromap command configuration.
type Config struct {
	Width  int    `env:"HYDROMAP_WIDTH" envDefault:"640"`
	Height int    `env:"HYDROMAP_HEIGHT" envDefault:"360"`
	Seed   int64  `env:"HYDROMAP_SEED" envDefault:"1234"`
	Out    string `env:"HYDROMAP_OUT" envDefault:"-"`
	PNG    string `env:"HYDROMAP_PNG"`
	Quiet  bool   `env:"HYDROMAP_QUIET"`

	PrintParams bool
	Overrides   entrypoint.KVList
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Width, "w", cfg.Width, "map width")
	fs.IntVar(&cfg.Height, "h", cfg.Height, "map height")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "generation seed")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "JSON output path, - for stdout, empty to skip")
	fs.StringVar(&cfg.PNG, "png", cfg.PNG, "optional PNG preview path")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "suppress per-stage logging")
	fs.BoolVar(&cfg.PrintParams, "params", false, "print the resolved parameters and exit")
	fs.Var(&cfg.Overrides, "set", "parameter override in key=value form (repeatable)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// HydroConfig resolves the generation config: defaults, then size and seed,
// then -set overrides.
func (c Config) HydroConfig() hydro.Config {
	base := hydro.DefaultConfig()
	base.Width = c.Width
	base.Height = c.Height
	base.Seed = c.Seed
	return base.Override(c.Overrides.Map())
}

// Run generates one map under tracing.
func Run(ctx context.Context, cfg Config, stdout io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGenerate, func(ctx context.Context) error {
		return generate(ctx, cfg, stdout)
	})
}

func generate(ctx context.Context, cfg Config, stdout io.Writer) error {
	hc := cfg.HydroConfig()
	if cfg.PrintParams {
		return hc.Parameters().Write(stdout)
	}

	p, err := hydro.NewPipeline(hc)
	if err != nil {
		return err
	}
	for {
		rep, err := p.Step(ctx)
		if errors.Is(err, hydro.ErrPipelineDone) {
			break
		}
		if err != nil {
			return err
		}
		if !cfg.Quiet {
			log.Printf("%2d %-15s %8s  %s", rep.Index, rep.Stage, rep.Elapsed.Round(time.Microsecond), rep.Summary)
		}
	}
	out := p.Outputs()
	if !cfg.Quiet {
		m := out.Meta
		log.Printf("seed=%d cells=%d islands=%d lakes=%d rivers=%d winds=%v",
			m.SeedUsed, m.Cells, m.Islands, m.Lakes, m.RiversCount, m.Winds)
	}

	if err := writeJSON(cfg.Out, stdout, out); err != nil {
		return err
	}
	if cfg.PNG != "" {
		g := p.Graph()
		raster := render.Rasterize(out.Cells, g, g.Size(), hc.Params.SeaLevel)
		render.StampRivers(raster, out.RiverSegments)
		if err := render.WritePNG(cfg.PNG, raster, render.Palette); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, stdout io.Writer, out *hydro.Outputs) error {
	if path == "" {
		return nil
	}
	if path == "-" {
		return encodeJSON(stdout, out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encodeAndClose(f, out); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func encodeJSON(w io.Writer, out *hydro.Outputs) error {
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode outputs: %w", err)
	}
	return nil
}

// encodeAndClose reports the close error when encoding succeeded.
func encodeAndClose(wc io.WriteCloser, out *hydro.Outputs) error {
	if err := encodeJSON(wc, out); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}
