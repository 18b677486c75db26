package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/custodia-labs/custodia/cmd/app/commands"
	"github.com/custodia-labs/custodia/internal/app"
	"github.com/custodia-labs/custodia/internal/config"
)

func getWalletCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-wallet",
			Usage: "Create a wallet whose seed is sealed under a password hash",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "password-hash",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Client-side password hash that seals the wallet seed",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				wallets, err := container.WalletUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateWallet(
					ctx,
					wallets,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("password-hash"),
					cmd.String("format"),
				)
			},
		},
	}
}
