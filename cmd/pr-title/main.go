// Package main checks the title of the pull request that triggered a
// GitHub Actions workflow.
package main

import (
	"context"
	"os"

	platformcmd "github.com/roguedex/gamedata/internal/platform/cmd"
	"github.com/roguedex/gamedata/internal/platform/config"
	"github.com/roguedex/gamedata/internal/tools/prtitle"
)

func main() {
	cfg, err := prtitle.LoadConfig()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := platformcmd.RunWithTelemetry(context.Background(), platformcmd.ServicePRTitle, func(ctx context.Context) error {
		return prtitle.Run(ctx, cfg, os.Stdout)
	}); err != nil {
		os.Exit(1)
	}
}
