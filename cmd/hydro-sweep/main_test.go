package main

import (
	"flag"
	"testing"
)

func TestParseConfigFlagDefaultsFollowEnv(t *testing.T) {
	t.Setenv("HYDROMAP_SEED", "40")
	fs := flag.NewFlagSet("hydro-sweep", flag.ContinueOnError)
	cfg, err := parseConfig(fs, []string{"-seeds", "2", "-axis", "precip=5,7"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 180 || cfg.Seed != 40 || cfg.Seeds != 2 || cfg.Top != 5 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if got := cfg.Axes.Map()["precip"]; got != "5,7" {
		t.Fatalf("axis %q, expected 5,7", got)
	}

	defaults := map[string]string{"w": "320", "h": "180", "seed": "40", "seeds": "4", "top": "5"}
	for name, want := range defaults {
		f := fs.Lookup(name)
		if f == nil {
			t.Fatalf("flag -%s not registered", name)
		}
		if f.DefValue != want {
			t.Fatalf("flag -%s shows default %q, expected %q", name, f.DefValue, want)
		}
	}
}
