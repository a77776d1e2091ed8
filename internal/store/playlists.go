package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Playlist is a named, ordered list of song ids. Songs may repeat.
type Playlist struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Songs []int64 `json:"songs"`
}

// PlaylistSummary is the list-view shape of a playlist.
type PlaylistSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SongsEdit derives a playlist's new song ids from its current ones. The
// slice passed in is owned by the callee.
type SongsEdit func(current []int64) ([]int64, error)

// CountPlaylists returns the number of playlists.
func (s *Store) CountPlaylists(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM playlists`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count playlists: %w", err)
	}
	return count, nil
}

// ListPlaylists returns a window of playlists in id order.
func (s *Store) ListPlaylists(ctx context.Context, limit, offset int) ([]PlaylistSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name
		FROM playlists
		ORDER BY id ASC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]PlaylistSummary, 0, limit)
	for rows.Next() {
		var p PlaylistSummary
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}

// GetPlaylist returns a single playlist by ID.
func (s *Store) GetPlaylist(ctx context.Context, id int64) (Playlist, error) {
	return scanPlaylist(s.db.QueryRowContext(ctx, `
		SELECT id, name, songs
		FROM playlists
		WHERE id = $1`, id))
}

// CreatePlaylist persists a new playlist.
func (s *Store) CreatePlaylist(ctx context.Context, name string, songs []int64) (Playlist, error) {
	songs = normalize(songs)
	playlist := Playlist{Name: name, Songs: songs}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (name, songs)
		VALUES ($1, $2)
		RETURNING id`, name, pq.Array(songs)).Scan(&playlist.ID)
	if err != nil {
		if isOutOfRange(err) {
			return Playlist{}, fmt.Errorf("insert playlist: %w", ErrInvalidValue)
		}
		return Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}
	return playlist, nil
}

// UpdatePlaylist renames a playlist. When songs is non-nil it also replaces
// the song list; a nil songs keeps the stored one.
func (s *Store) UpdatePlaylist(ctx context.Context, id int64, name string, songs []int64) (Playlist, error) {
	var row *sql.Row
	if songs == nil {
		row = s.db.QueryRowContext(ctx, `
			UPDATE playlists
			SET name = $1
			WHERE id = $2
			RETURNING id, name, songs`, name, id)
	} else {
		row = s.db.QueryRowContext(ctx, `
			UPDATE playlists
			SET name = $1, songs = $2
			WHERE id = $3
			RETURNING id, name, songs`, name, pq.Array(songs), id)
	}

	playlist, err := scanPlaylist(row)
	if err != nil && isOutOfRange(err) {
		return Playlist{}, fmt.Errorf("update playlist: %w", ErrInvalidValue)
	}
	return playlist, err
}

// DeletePlaylist removes a playlist.
func (s *Store) DeletePlaylist(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// EditPlaylistSongs applies edit to the playlist's song ids under a row lock
// and stores the result. Concurrent edits of the same playlist serialize; if
// edit fails nothing is written and its error is returned unchanged.
func (s *Store) EditPlaylistSongs(ctx context.Context, id int64, edit SongsEdit) (playlist Playlist, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Playlist{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	playlist, err = scanPlaylist(tx.QueryRowContext(ctx, `
		SELECT id, name, songs
		FROM playlists
		WHERE id = $1
		FOR UPDATE`, id))
	if err != nil {
		return Playlist{}, err
	}

	songs, err := edit(playlist.Songs)
	if err != nil {
		return Playlist{}, err
	}
	playlist.Songs = normalize(songs)

	if _, err = tx.ExecContext(ctx, `UPDATE playlists SET songs = $1 WHERE id = $2`,
		pq.Array(playlist.Songs), id); err != nil {
		return Playlist{}, fmt.Errorf("update playlist songs: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return Playlist{}, fmt.Errorf("commit playlist songs: %w", err)
	}
	return playlist, nil
}

func scanPlaylist(row *sql.Row) (Playlist, error) {
	var playlist Playlist
	var songs pq.Int64Array
	err := row.Scan(&playlist.ID, &playlist.Name, &songs)
	if errors.Is(err, sql.ErrNoRows) {
		return Playlist{}, ErrPlaylistNotFound
	}
	if err != nil {
		return Playlist{}, fmt.Errorf("get playlist: %w", err)
	}
	playlist.Songs = normalize(songs)
	return playlist, nil
}

// normalize returns ids as a non-nil slice; a nil array would be stored as NULL.
func normalize(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
