package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"setlist/internal/store"
)

func serveAction(ctx context.Context, cmd *cli.Command) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if cmd.Bool("migrate") {
		db, err := rt.requireDB()
		if err != nil {
			return err
		}
		if err := store.MigrateUp(db); err != nil {
			return err
		}
	}
	if cmd.Bool("seed") || rt.cfg.SeedDemo {
		if err := seedDemo(ctx, rt.store); err != nil {
			return err
		}
	}

	return serve(ctx, rt)
}

func migrateUpAction(ctx context.Context, cmd *cli.Command) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	db, err := rt.requireDB()
	if err != nil {
		return err
	}
	if err := store.MigrateUp(db); err != nil {
		return err
	}
	log.Info().Msg("migrations applied")
	return nil
}

func migrateDownAction(ctx context.Context, cmd *cli.Command) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	db, err := rt.requireDB()
	if err != nil {
		return err
	}
	if err := store.MigrateDown(db); err != nil {
		return err
	}
	log.Info().Msg("migrations rolled back")
	return nil
}

func seedAction(ctx context.Context, cmd *cli.Command) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := seedDemo(ctx, rt.store); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	return nil
}
