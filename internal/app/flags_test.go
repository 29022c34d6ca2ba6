package app

import (
	"flag"
	"testing"
)

func TestParseConfigDefaultsAndFlags(t *testing.T) {
	t.Setenv("HYDROVIEW_SCALE", "3")
	fs := flag.NewFlagSet("hydroview", flag.ContinueOnError)
	c, err := ParseConfig(fs, []string{"-seed", "8", "-set", "precip=2", "-hud", "0"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Scale != 3 || c.Seed != 8 || c.HUDWidth != 0 || c.TPS != 60 || c.StageRate != 3 {
		t.Fatalf("unexpected config %+v", c)
	}
	hc := c.HydroConfig()
	if hc.Seed != 8 || hc.Width != 640 || hc.Params.Precip != 2 {
		t.Fatalf("unexpected hydro config %+v", hc)
	}
}
