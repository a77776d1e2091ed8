package songs

import (
	"context"
	"math"
	"strconv"

	"setlist/internal/pagination"
	"setlist/internal/store"
	"setlist/internal/validate"
)

const (
	maxNameLength   = 255
	maxArtistLength = 255
)

// Input is a song as submitted by a client. Nil fields were absent from the
// request body.
type Input struct {
	Name        *string `json:"name"`
	Artist      *string `json:"artist"`
	ReleaseYear *int64  `json:"release_year"`
}

// Store captures the persistence needs for the song catalog.
type Store interface {
	CountSongs(ctx context.Context) (int, error)
	ListSongs(ctx context.Context, limit, offset int) ([]store.Song, error)
	GetSong(ctx context.Context, id int64) (store.Song, error)
	CreateSong(ctx context.Context, song store.Song) (store.Song, error)
	DeleteSong(ctx context.Context, id int64) error
}

// Service exposes song-centric operations.
type Service interface {
	List(ctx context.Context, page int) (pagination.Page[store.Song], error)
	Get(ctx context.Context, id int64) (store.Song, error)
	Create(ctx context.Context, in Input) (store.Song, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	store Store
}

// New constructs a song Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, page int) (pagination.Page[store.Song], error) {
	if err := ctx.Err(); err != nil {
		return pagination.Page[store.Song]{}, err
	}

	count, err := s.store.CountSongs(ctx)
	if err != nil {
		return pagination.Page[store.Song]{}, err
	}
	window, err := pagination.New(page, pagination.DefaultPageSize, count)
	if err != nil {
		return pagination.Page[store.Song]{}, err
	}

	items, err := s.store.ListSongs(ctx, window.Limit(), window.Offset())
	if err != nil {
		return pagination.Page[store.Song]{}, err
	}
	return pagination.Page[store.Song]{Window: window, Items: items}, nil
}

func (s *service) Get(ctx context.Context, id int64) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	return s.store.GetSong(ctx, id)
}

func (s *service) Create(ctx context.Context, in Input) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}

	song, err := validateSong(in)
	if err != nil {
		return store.Song{}, err
	}
	return s.store.CreateSong(ctx, song)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteSong(ctx, id)
}

func validateSong(in Input) (store.Song, error) {
	errs := validate.FieldErrors{}
	var song store.Song

	if in.Name == nil {
		errs.Add("name", validate.MsgRequired)
	} else {
		song.Name = validate.Text(errs, "name", *in.Name, maxNameLength)
	}

	if in.Artist == nil {
		errs.Add("artist", validate.MsgRequired)
	} else {
		song.Artist = validate.Text(errs, "artist", *in.Artist, maxArtistLength)
	}

	// release_year is stored as a 32-bit INTEGER column.
	switch {
	case in.ReleaseYear == nil:
		errs.Add("release_year", validate.MsgRequired)
	case *in.ReleaseYear > math.MaxInt32:
		errs.Add("release_year", "Ensure this value is less than or equal to "+strconv.Itoa(math.MaxInt32)+".")
	case *in.ReleaseYear < math.MinInt32:
		errs.Add("release_year", "Ensure this value is greater than or equal to "+strconv.Itoa(math.MinInt32)+".")
	default:
		song.ReleaseYear = int(*in.ReleaseYear)
	}

	if err := errs.Err(); err != nil {
		return store.Song{}, err
	}
	return song, nil
}
