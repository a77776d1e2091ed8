package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestCreateSongSuccess(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO songs (name, artist, release_year)`)).
		WithArgs("Hey Jude", "The Beatles", 1968).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	got, err := s.CreateSong(context.Background(), Song{Name: "Hey Jude", Artist: "The Beatles", ReleaseYear: 1968})
	if err != nil {
		t.Fatalf("CreateSong error: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("expected song ID 7, got %d", got.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSongOutOfRange(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO songs`)).
		WithArgs("Song", "Artist", 99999999999).
		WillReturnError(&pgconn.PgError{Code: "22003"})

	_, err := s.CreateSong(context.Background(), Song{Name: "Song", Artist: "Artist", ReleaseYear: 99999999999})
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestGetSongNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM songs`)).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	if _, err := s.GetSong(context.Background(), 3); !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
}

func TestDeleteSongNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM songs WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteSong(context.Background(), 3); !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
}

func TestListSongsWindow(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $1 OFFSET $2`)).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "artist", "release_year"}).
			AddRow(int64(11), "Eleven", "A", 2001).
			AddRow(int64(12), "Twelve", "B", 2002))

	songs, err := s.ListSongs(context.Background(), 10, 10)
	if err != nil {
		t.Fatalf("ListSongs error: %v", err)
	}
	if len(songs) != 2 || songs[0].ID != 11 || songs[1].Name != "Twelve" {
		t.Fatalf("unexpected songs %+v", songs)
	}
}

func TestExistingSongIDs(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM songs WHERE id = ANY($1)`)).
		WithArgs(pq.Array([]int64{1, 2, 99})).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))

	existing, err := s.ExistingSongIDs(context.Background(), []int64{1, 2, 99})
	if err != nil {
		t.Fatalf("ExistingSongIDs error: %v", err)
	}
	if len(existing) != 2 {
		t.Fatalf("expected 2 ids, got %v", existing)
	}
	if _, ok := existing[99]; ok {
		t.Fatalf("99 should not exist")
	}
}

func TestExistingSongIDsEmptySkipsQuery(t *testing.T) {
	s, mock := newMock(t)

	existing, err := s.ExistingSongIDs(context.Background(), nil)
	if err != nil || len(existing) != 0 {
		t.Fatalf("expected empty result, got %v, %v", existing, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected queries: %v", err)
	}
}

func TestCreatePlaylistStoresEmptyArray(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO playlists (name, songs)`)).
		WithArgs("Road Trip", pq.Array([]int64{})).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	got, err := s.CreatePlaylist(context.Background(), "Road Trip", nil)
	if err != nil {
		t.Fatalf("CreatePlaylist error: %v", err)
	}
	if got.Songs == nil || len(got.Songs) != 0 {
		t.Fatalf("expected empty non-nil songs, got %#v", got.Songs)
	}
}

func TestGetPlaylistScansArray(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, songs`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "songs"}).AddRow(int64(4), "Mix", "{3,1,3}"))

	got, err := s.GetPlaylist(context.Background(), 4)
	if err != nil {
		t.Fatalf("GetPlaylist error: %v", err)
	}
	want := []int64{3, 1, 3}
	if len(got.Songs) != len(want) {
		t.Fatalf("songs = %v, want %v", got.Songs, want)
	}
	for i := range want {
		if got.Songs[i] != want[i] {
			t.Fatalf("songs = %v, want %v", got.Songs, want)
		}
	}
}

func TestUpdatePlaylistKeepsSongsWhenNil(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE playlists`)).
		WithArgs("Renamed", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "songs"}).AddRow(int64(4), "Renamed", "{1,2}"))

	got, err := s.UpdatePlaylist(context.Background(), 4, "Renamed", nil)
	if err != nil {
		t.Fatalf("UpdatePlaylist error: %v", err)
	}
	if got.Name != "Renamed" || len(got.Songs) != 2 {
		t.Fatalf("unexpected playlist %+v", got)
	}
}

func TestUpdatePlaylistNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SET name = $1, songs = $2`)).
		WithArgs("Renamed", pq.Array([]int64{1}), int64(4)).
		WillReturnError(sql.ErrNoRows)

	if _, err := s.UpdatePlaylist(context.Background(), 4, "Renamed", []int64{1}); !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestDeletePlaylistNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlists WHERE id = $1`)).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeletePlaylist(context.Background(), 8); !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestEditPlaylistSongsCommits(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "songs"}).AddRow(int64(1), "Mix", "{1,2,3}"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE playlists SET songs = $1 WHERE id = $2`)).
		WithArgs(pq.Array([]int64{2, 1, 3}), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := s.EditPlaylistSongs(context.Background(), 1, func(current []int64) ([]int64, error) {
		return []int64{current[1], current[0], current[2]}, nil
	})
	if err != nil {
		t.Fatalf("EditPlaylistSongs error: %v", err)
	}
	if got.Songs[0] != 2 || got.Songs[1] != 1 {
		t.Fatalf("unexpected songs %v", got.Songs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEditPlaylistSongsRollsBackOnEditError(t *testing.T) {
	s, mock := newMock(t)
	editErr := errors.New("rejected")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "songs"}).AddRow(int64(1), "Mix", "{1}"))
	mock.ExpectRollback()

	_, err := s.EditPlaylistSongs(context.Background(), 1, func([]int64) ([]int64, error) {
		return nil, editErr
	})
	if !errors.Is(err, editErr) {
		t.Fatalf("expected edit error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEditPlaylistSongsMissingPlaylist(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := s.EditPlaylistSongs(context.Background(), 5, func(current []int64) ([]int64, error) {
		t.Fatalf("edit must not run for a missing playlist")
		return current, nil
	})
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
