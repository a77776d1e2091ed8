package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "setlist",
		Usage: "Song catalog and playlist API",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP API",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "migrate",
						Usage: "Apply pending migrations before serving (postgres backend)",
					},
					&cli.BoolFlag{
						Name:  "seed",
						Usage: "Load the demo catalog when it is empty",
					},
				},
				Action: serveAction,
			},
			{
				Name:  "migrate",
				Usage: "Manage the database schema",
				Commands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply every pending migration",
						Action: migrateUpAction,
					},
					{
						Name:   "down",
						Usage:  "Roll back every applied migration",
						Action: migrateDownAction,
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Load the demo catalog when it is empty",
				Action: seedAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("setlist failed")
	}
}
