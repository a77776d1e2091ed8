package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrSongNotFound indicates the song id has no catalog entry.
	ErrSongNotFound = errors.New("song does not exist")
	// ErrPlaylistNotFound indicates the playlist id has no row.
	ErrPlaylistNotFound = errors.New("playlist does not exist")
	// ErrInvalidValue signals a value the database rejected as out of range
	// for its column.
	ErrInvalidValue = errors.New("value out of range")
)

// Store provides catalog and playlist persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// isOutOfRange reports numeric_value_out_of_range (22003) and
// string_data_right_truncation (22001).
func isOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22003" || pgErr.Code == "22001"
	}
	return false
}
