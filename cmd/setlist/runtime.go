package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"setlist/internal/app/playlists"
	"setlist/internal/app/songs"
	"setlist/internal/config"
	"setlist/internal/events"
	"setlist/internal/logging"
	"setlist/internal/store"
)

// dataStore is satisfied by both store backends.
type dataStore interface {
	songs.Store
	playlists.Store
}

// runtime holds the long-lived dependencies shared by every command.
type runtime struct {
	cfg       *config.Config
	db        *sql.DB // nil for the memory backend
	store     dataStore
	publisher playlists.Publisher
	closers   []io.Closer
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, logCloser := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	logging.SetGlobalLogger(logger)

	rt := &runtime{cfg: cfg, publisher: events.Nop{}, closers: []io.Closer{logCloser}}

	switch cfg.Backend {
	case config.BackendMemory:
		rt.store = store.NewMemory()
		log.Warn().Msg("using in-memory store; data is lost on exit")
	default:
		db, err := openDatabase(ctx, cfg.Database.URL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.db = db
		rt.store = store.New(db)
		rt.closers = append(rt.closers, db)
		log.Info().Msg("connected to PostgreSQL")
	}

	if cfg.Redis.URL != "" {
		rdb, err := openRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, playlist events disabled")
		} else {
			rt.publisher = events.NewRedisPublisher(rdb)
			rt.closers = append(rt.closers, rdb)
			log.Info().Str("channel", events.Channel).Msg("publishing playlist events")
		}
	}

	return rt, nil
}

func openRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// requireDB returns the Postgres handle or an error for the memory backend.
func (rt *runtime) requireDB() (*sql.DB, error) {
	if rt.db == nil {
		return nil, errors.New("migrations need STORE_BACKEND=postgres")
	}
	return rt.db, nil
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i].Close()
	}
}
