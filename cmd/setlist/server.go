package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"setlist/internal/app/playlists"
	"setlist/internal/app/songs"
	"setlist/internal/config"
	"setlist/internal/http/middleware"
	"setlist/internal/httpapi"
)

// newHTTPHandler wraps the router itself so that CORS preflights and
// unmatched routes still pass through the middleware chain.
func newHTTPHandler(cfg *config.Config, store dataStore, publisher playlists.Publisher) http.Handler {
	songSvc := songs.New(store)
	playlistSvc := playlists.New(store, publisher)

	var handler http.Handler = httpapi.New(songSvc, playlistSvc).Routes()
	handler = middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)(handler)
	handler = middleware.CORS(cfg.CORS.AllowedOrigins)(handler)
	handler = middleware.Recovery()(handler)
	handler = middleware.RequestLogging()(handler)
	return handler
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func serve(ctx context.Context, rt *runtime) error {
	srv := &http.Server{
		Addr:         rt.cfg.Server.Addr(),
		Handler:      newHTTPHandler(rt.cfg, rt.store, rt.publisher),
		ReadTimeout:  rt.cfg.Server.ReadTimeout,
		WriteTimeout: rt.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
