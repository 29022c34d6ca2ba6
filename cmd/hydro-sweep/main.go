// Package main sweeps parameter combinations and seeds concurrently and
// prints the runs ranked by river count.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"hydromap/internal/hydro"
	entrypoint "hydromap/internal/platform/cmd"
	"hydromap/internal/sweep"
)

// Config holds hydro-sweep command configuration.
type Config struct {
	Width   int   `env:"HYDROMAP_WIDTH" envDefault:"320"`
	Height  int   `env:"HYDROMAP_HEIGHT" envDefault:"180"`
	Seed    int64 `env:"HYDROMAP_SEED" envDefault:"1"`
	Seeds   int   `env:"HYDROMAP_SWEEP_SEEDS" envDefault:"4"`
	Workers int   `env:"HYDROMAP_SWEEP_WORKERS"`
	Top     int   `env:"HYDROMAP_SWEEP_TOP" envDefault:"5"`

	Axes      entrypoint.KVList
	Overrides entrypoint.KVList
}

func main() {
	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSweep, func(ctx context.Context) error {
		return run(ctx, cfg)
	}); err != nil {
		log.Fatalf("sweep: %v", err)
	}
}

// parseConfig loads env defaults first so flag help shows them.
func parseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Width, "w", cfg.Width, "map width")
	fs.IntVar(&cfg.Height, "h", cfg.Height, "map height")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "first seed")
	fs.IntVar(&cfg.Seeds, "seeds", cfg.Seeds, "seeds per parameter set")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of worker goroutines (0 uses every CPU)")
	fs.IntVar(&cfg.Top, "top", cfg.Top, "results to print")
	fs.Var(&cfg.Axes, "axis", "sweep axis in key=v1,v2,... form (repeatable)")
	fs.Var(&cfg.Overrides, "set", "parameter override in key=value form (repeatable)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg Config) error {
	base := hydro.DefaultConfig()
	base.Width = cfg.Width
	base.Height = cfg.Height
	base = base.Override(cfg.Overrides.Map())

	axes := map[string][]string{}
	for k, v := range cfg.Axes.Map() {
		axes[k] = strings.Split(v, ",")
	}
	scenarios := sweep.Scenarios(sweep.Grid(axes), cfg.Seed, cfg.Seeds)
	fmt.Printf("Sweeping %d scenarios (%d workers, %dx%d)\n", len(scenarios), cfg.Workers, cfg.Width, cfg.Height)

	start := time.Now()
	results, err := sweep.Run(ctx, base, scenarios, cfg.Workers)
	if err != nil {
		return err
	}
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("Failed %s: %v\n", res.Scenario, res.Err)
		}
	}

	ranked := sweep.Rank(results)
	fmt.Printf("\nTop %d results (elapsed %s, %d failed):\n", cfg.Top, time.Since(start).Round(time.Millisecond), failed)
	for i := 0; i < len(ranked) && i < cfg.Top; i++ {
		res := ranked[i]
		if res.Err != nil {
			break
		}
		m := res.Meta
		fmt.Printf("%2d) rivers=%d segments=%d islands=%d lakes=%d land=%.2f winds=%v passes=%d unresolved=%d %s (%s)\n",
			i+1, m.RiversCount, res.Segments, m.Islands, m.Lakes, res.LandShare, m.Winds,
			m.DepressionPasses, m.UnresolvedDepressions, res.Scenario, res.Elapsed.Round(time.Millisecond))
	}
	return nil
}
