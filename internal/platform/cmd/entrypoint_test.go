package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	Out  string `env:"HYDROMAP_CMD_TEST_OUT" envDefault:"map.json"`
	Seed int64  `env:"HYDROMAP_CMD_TEST_SEED" envDefault:"1"`
}

func TestParseConfigFromArgsReadsEnvThenFlags(t *testing.T) {
	t.Setenv("HYDROMAP_CMD_TEST_OUT", "env.json")
	t.Setenv("HYDROMAP_CMD_TEST_SEED", "5")

	var cfg testConfig
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.StringVar(&cfg.Out, "out", "", "output")
	fs.Int64Var(&cfg.Seed, "seed", 0, "seed")
	if err := ParseConfigFromArgs(&cfg, fs, []string{"-seed", "9"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Out != "env.json" || cfg.Seed != 9 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestParseConfigRejectsNilTargets(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil config to be rejected")
	}
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected nil flag set to be rejected")
	}
}

func TestRunWithTelemetry(t *testing.T) {
	t.Setenv("HYDROMAP_OTEL_ENDPOINT", "")
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceGenerate, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
	want := errors.New("boom")
	if err := RunWithTelemetry(context.Background(), ServiceGenerate, func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected run error, got %v", err)
	}
}

func TestKVList(t *testing.T) {
	var l KVList
	fs := flag.NewFlagSet("kv", flag.ContinueOnError)
	fs.Var(&l, "set", "override")
	if err := fs.Parse([]string{"-set", "sea_level=0.3", "-set", " precip = 4 ", "-set", "sea_level=0.25"}); err != nil {
		t.Fatal(err)
	}
	m := l.Map()
	if m["sea_level"] != "0.25" || m["precip"] != "4" || len(m) != 2 {
		t.Fatalf("unexpected map %v", m)
	}
	if err := l.Set("novalue"); err == nil {
		t.Fatal("expected malformed override to be rejected")
	}
}
