package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/custodia-labs/custodia/cmd/app/commands"
	"github.com/custodia-labs/custodia/internal/app"
	"github.com/custodia-labs/custodia/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server, the metrics server and the reconciliation worker",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Create the documents table for a SQL document store",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DocStoreDriver, cfg.DBConnectionString)
			},
		},
	}
}
