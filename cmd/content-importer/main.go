// Package main imports game content into the SQLite content store.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	platformcmd "github.com/roguedex/gamedata/internal/platform/cmd"
	"github.com/roguedex/gamedata/internal/platform/config"
	contentimporter "github.com/roguedex/gamedata/internal/tools/importer/content"
)

func main() {
	cfg, err := contentimporter.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	logger, err := platformcmd.NewLogger()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	cfg.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetryAndOptions(ctx, platformcmd.ServiceContentImporter, platformcmd.RunOptions{Logger: logger}, func(ctx context.Context) error {
		return contentimporter.Run(ctx, cfg, os.Stdout)
	}); err != nil {
		config.Exitf("Error: %v", err)
	}
}
