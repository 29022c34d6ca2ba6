package core

import (
	"strings"
	"testing"
)

func TestParameterSnapshotLookupAndWrite(t *testing.T) {
	snap := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "Map", Params: []Parameter{IntParam("w", "Width", 640), FloatParam("sea_level", "Sea level", 0.2)}},
		{Name: "Winds", Params: []Parameter{BoolParam("winds_randomize", "Randomize winds", true)}},
	}}

	p, ok := snap.Lookup("sea_level")
	if !ok || p.Value != "0.2" || p.Type != ParamTypeFloat {
		t.Fatalf("unexpected lookup result %+v ok=%v", p, ok)
	}
	if _, ok := snap.Lookup("missing"); ok {
		t.Fatal("lookup of unknown key should fail")
	}

	var b strings.Builder
	if err := snap.Write(&b); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	want := "Map:\n  w=640\n  sea_level=0.2\nWinds:\n  winds_randomize=true\n"
	if b.String() != want {
		t.Fatalf("unexpected output:\n%s", b.String())
	}
}
