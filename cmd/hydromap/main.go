// Package main generates one hydrology map and writes it as JSON.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hydromap/internal/cmd/generate"
)

func main() {
	cfg, err := generate.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[HYDROMAP] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := generate.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("generate: %v", err)
	}
}
