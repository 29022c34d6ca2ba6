//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"hydromap/internal/app"
	entrypoint "hydromap/internal/platform/cmd"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg, err := app.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	viewer, err := app.NewViewer(cfg.HydroConfig())
	if err != nil {
		log.Fatalf("hydroview: %v", err)
	}
	game := app.New(viewer, cfg)
	size := viewer.Size()

	ebiten.SetWindowTitle("hydromap viewer")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*max(cfg.Scale, 1)+max(cfg.HUDWidth, 0), size.H*max(cfg.Scale, 1))

	err = entrypoint.RunWithTelemetry(context.Background(), entrypoint.ServiceViewer, func(context.Context) error {
		return ebiten.RunGame(game)
	})
	if err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
