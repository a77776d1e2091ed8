package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Song is a catalog entry.
type Song struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	ReleaseYear int    `json:"release_year"`
}

// CountSongs returns the catalog size.
func (s *Store) CountSongs(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return count, nil
}

// ListSongs returns a window of the catalog in id order.
func (s *Store) ListSongs(ctx context.Context, limit, offset int) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, artist, release_year
		FROM songs
		ORDER BY id ASC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	songs := make([]Song, 0, limit)
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Name, &song.Artist, &song.ReleaseYear); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// GetSong returns a single song by ID.
func (s *Store) GetSong(ctx context.Context, id int64) (Song, error) {
	var song Song
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, artist, release_year
		FROM songs
		WHERE id = $1`, id).Scan(&song.ID, &song.Name, &song.Artist, &song.ReleaseYear)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, ErrSongNotFound
	}
	if err != nil {
		return Song{}, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

// CreateSong inserts song and returns it with its assigned id.
func (s *Store) CreateSong(ctx context.Context, song Song) (Song, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO songs (name, artist, release_year)
		VALUES ($1, $2, $3)
		RETURNING id`, song.Name, song.Artist, song.ReleaseYear).Scan(&song.ID)
	if err != nil {
		if isOutOfRange(err) {
			return Song{}, fmt.Errorf("insert song: %w", ErrInvalidValue)
		}
		return Song{}, fmt.Errorf("insert song: %w", err)
	}
	return song, nil
}

// DeleteSong removes a song from the catalog. Playlists referencing it are
// left untouched; their dangling ids are skipped when songs are read back.
func (s *Store) DeleteSong(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSongNotFound
	}
	return nil
}

// ExistingSongIDs returns the subset of ids that have a catalog entry.
func (s *Store) ExistingSongIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	existing := make(map[int64]struct{}, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM songs WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("lookup song ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan song id: %w", err)
		}
		existing[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate song ids: %w", err)
	}
	return existing, nil
}

// SongsByID loads the catalog entries for ids, keyed by id. Ids without a
// catalog entry are absent from the result.
func (s *Store) SongsByID(ctx context.Context, ids []int64) (map[int64]Song, error) {
	found := make(map[int64]Song, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, artist, release_year
		FROM songs
		WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load songs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Name, &song.Artist, &song.ReleaseYear); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		found[song.ID] = song
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return found, nil
}
