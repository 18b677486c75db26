package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/custodia-labs/custodia/cmd/app/commands"
	"github.com/custodia-labs/custodia/internal/app"
	"github.com/custodia-labs/custodia/internal/config"
)

func getReconcileCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "reconcile",
			Usage: "Replay pending reconciliation entries once",
			Flags: []cli.Flag{
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				reconciler, err := container.ReconcileUseCase()
				if err != nil {
					return err
				}

				return commands.RunReconcile(
					ctx,
					reconciler,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-reconciliation",
			Usage: "List reconciliation entries",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "status",
					Aliases: []string{"s"},
					Usage:   "Filter by status: pending, processed or failed",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				reconciler, err := container.ReconcileUseCase()
				if err != nil {
					return err
				}

				return commands.RunListReconciliation(
					ctx,
					reconciler,
					commands.DefaultIO().Writer,
					cmd.String("status"),
					cmd.String("format"),
				)
			},
		},
	}
}
