package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"setlist/internal/store"
)

// seedStore is the subset of a store the demo seed writes through.
type seedStore interface {
	CountSongs(ctx context.Context) (int, error)
	CreateSong(ctx context.Context, song store.Song) (store.Song, error)
	CreatePlaylist(ctx context.Context, name string, songs []int64) (store.Playlist, error)
}

// seedDemo loads a small catalog and two playlists. It does nothing when the
// catalog already has songs.
func seedDemo(ctx context.Context, s seedStore) error {
	count, err := s.CountSongs(ctx)
	if err != nil {
		return fmt.Errorf("count songs: %w", err)
	}
	if count > 0 {
		log.Info().Int("songs", count).Msg("catalog not empty, skipping demo seed")
		return nil
	}

	catalog := []store.Song{
		{Name: "Roygbiv", Artist: "Boards of Canada", ReleaseYear: 1998},
		{Name: "Teardrop", Artist: "Massive Attack", ReleaseYear: 1998},
		{Name: "Glory Box", Artist: "Portishead", ReleaseYear: 1994},
		{Name: "Paranoid Android", Artist: "Radiohead", ReleaseYear: 1997},
		{Name: "Les Nuits", Artist: "Nightmares on Wax", ReleaseYear: 1999},
		{Name: "Kerala", Artist: "Bonobo", ReleaseYear: 2017},
		{Name: "Says", Artist: "Nils Frahm", ReleaseYear: 2013},
		{Name: "Them Changes", Artist: "Thundercat", ReleaseYear: 2017},
		{Name: "Sour Times", Artist: "Portishead", ReleaseYear: 1994},
		{Name: "No Surprises", Artist: "Radiohead", ReleaseYear: 1997},
		{Name: "Angel", Artist: "Massive Attack", ReleaseYear: 1998},
		{Name: "Aquarius", Artist: "Boards of Canada", ReleaseYear: 1998},
	}

	ids := make([]int64, 0, len(catalog))
	for _, song := range catalog {
		created, err := s.CreateSong(ctx, song)
		if err != nil {
			return fmt.Errorf("insert demo song %q: %w", song.Name, err)
		}
		ids = append(ids, created.ID)
	}

	playlists := []struct {
		name  string
		songs []int64
	}{
		{name: "Trip Hop Evenings", songs: []int64{ids[1], ids[2], ids[10], ids[8]}},
		{name: "Everything", songs: ids},
	}
	for _, p := range playlists {
		if _, err := s.CreatePlaylist(ctx, p.name, p.songs); err != nil {
			return fmt.Errorf("insert demo playlist %q: %w", p.name, err)
		}
	}

	log.Info().Int("songs", len(ids)).Int("playlists", len(playlists)).Msg("demo data seeded")
	return nil
}
