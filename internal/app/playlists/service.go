package playlists

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"setlist/internal/events"
	"setlist/internal/membership"
	"setlist/internal/pagination"
	"setlist/internal/store"
	"setlist/internal/validate"
)

const maxNameLength = 100

const msgNull = "This field may not be null."

// Input is a playlist as submitted by a client. A nil Name was absent from
// the request; a nil Songs leaves the stored list untouched on update. An
// explicit "songs": null is rejected rather than read as absent.
type Input struct {
	Name  *string `json:"name"`
	Songs []int64 `json:"songs"`

	songsNull bool
}

// UnmarshalJSON records whether songs was sent as null.
func (in *Input) UnmarshalJSON(data []byte) error {
	type plain Input
	var raw struct {
		plain
		Songs json.RawMessage `json:"songs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*in = Input(raw.plain)
	in.Songs = nil
	if raw.Songs == nil {
		return nil
	}
	if bytes.Equal(bytes.TrimSpace(raw.Songs), []byte("null")) {
		in.songsNull = true
		return nil
	}
	return json.Unmarshal(raw.Songs, &in.Songs)
}

// PlaylistSong is a catalog song annotated with its 1-based rank in the
// playlist.
type PlaylistSong struct {
	store.Song
	Position int `json:"position"`
}

// Store captures the persistence needs for playlist workflows.
type Store interface {
	CountPlaylists(ctx context.Context) (int, error)
	ListPlaylists(ctx context.Context, limit, offset int) ([]store.PlaylistSummary, error)
	GetPlaylist(ctx context.Context, id int64) (store.Playlist, error)
	CreatePlaylist(ctx context.Context, name string, songs []int64) (store.Playlist, error)
	UpdatePlaylist(ctx context.Context, id int64, name string, songs []int64) (store.Playlist, error)
	DeletePlaylist(ctx context.Context, id int64) error
	EditPlaylistSongs(ctx context.Context, id int64, edit store.SongsEdit) (store.Playlist, error)
	ExistingSongIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)
	SongsByID(ctx context.Context, ids []int64) (map[int64]store.Song, error)
}

// Publisher receives an event after every successful change.
type Publisher interface {
	Publish(ctx context.Context, event events.Event)
}

// Service coordinates playlist-related operations.
type Service interface {
	List(ctx context.Context, page int) (pagination.Page[store.PlaylistSummary], error)
	Get(ctx context.Context, id int64) (store.Playlist, error)
	Create(ctx context.Context, in Input) (store.Playlist, error)
	Update(ctx context.Context, id int64, in Input) (store.Playlist, error)
	Delete(ctx context.Context, id int64) error
	ListSongs(ctx context.Context, id int64, page int) (pagination.Page[PlaylistSong], error)
	AddSong(ctx context.Context, id, songID int64) (store.Playlist, error)
	MoveSong(ctx context.Context, id, songID int64, position int) (store.Playlist, error)
	RemoveSong(ctx context.Context, id, songID int64) (store.Playlist, error)
}

type service struct {
	store  Store
	events Publisher
}

// New constructs a Service backed by the provided Store. A nil publisher
// discards events.
func New(store Store, publisher Publisher) Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &service{store: store, events: publisher}
}

func (s *service) List(ctx context.Context, page int) (pagination.Page[store.PlaylistSummary], error) {
	if err := ctx.Err(); err != nil {
		return pagination.Page[store.PlaylistSummary]{}, err
	}

	count, err := s.store.CountPlaylists(ctx)
	if err != nil {
		return pagination.Page[store.PlaylistSummary]{}, err
	}
	window, err := pagination.New(page, pagination.DefaultPageSize, count)
	if err != nil {
		return pagination.Page[store.PlaylistSummary]{}, err
	}

	items, err := s.store.ListPlaylists(ctx, window.Limit(), window.Offset())
	if err != nil {
		return pagination.Page[store.PlaylistSummary]{}, err
	}
	return pagination.Page[store.PlaylistSummary]{Window: window, Items: items}, nil
}

func (s *service) Get(ctx context.Context, id int64) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.GetPlaylist(ctx, id)
}

func (s *service) Create(ctx context.Context, in Input) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}

	name, songs, err := s.validateInput(ctx, in)
	if err != nil {
		return store.Playlist{}, err
	}

	playlist, err := s.store.CreatePlaylist(ctx, name, songs)
	if err != nil {
		return store.Playlist{}, err
	}
	s.publish(ctx, events.PlaylistCreated, playlist.ID, map[string]any{"playlist": playlist})
	return playlist, nil
}

func (s *service) Update(ctx context.Context, id int64, in Input) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}

	name, songs, err := s.validateInput(ctx, in)
	if err != nil {
		return store.Playlist{}, err
	}

	playlist, err := s.store.UpdatePlaylist(ctx, id, name, songs)
	if err != nil {
		return store.Playlist{}, err
	}
	s.publish(ctx, events.PlaylistUpdated, playlist.ID, map[string]any{"playlist": playlist})
	return playlist, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.DeletePlaylist(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.PlaylistDeleted, id, nil)
	return nil
}

// ListSongs pages through the playlist's songs in playlist order. A song
// listed more than once appears at its first position only, and ids whose
// song has since been deleted are skipped.
func (s *service) ListSongs(ctx context.Context, id int64, page int) (pagination.Page[PlaylistSong], error) {
	if err := ctx.Err(); err != nil {
		return pagination.Page[PlaylistSong]{}, err
	}

	playlist, err := s.store.GetPlaylist(ctx, id)
	if err != nil {
		return pagination.Page[PlaylistSong]{}, err
	}

	ids := membership.FirstOccurrences(playlist.Songs)
	found, err := s.store.SongsByID(ctx, ids)
	if err != nil {
		return pagination.Page[PlaylistSong]{}, err
	}
	ordered := make([]store.Song, 0, len(found))
	for _, songID := range ids {
		if song, ok := found[songID]; ok {
			ordered = append(ordered, song)
		}
	}

	window, err := pagination.New(page, pagination.DefaultPageSize, len(ordered))
	if err != nil {
		return pagination.Page[PlaylistSong]{}, err
	}
	start, end := window.Bounds(len(ordered))
	items := make([]PlaylistSong, 0, end-start)
	for i, song := range ordered[start:end] {
		items = append(items, PlaylistSong{Song: song, Position: window.Position(i)})
	}
	return pagination.Page[PlaylistSong]{Window: window, Items: items}, nil
}

func (s *service) AddSong(ctx context.Context, id, songID int64) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}

	if _, err := s.store.GetPlaylist(ctx, id); err != nil {
		return store.Playlist{}, err
	}
	existing, err := s.store.ExistingSongIDs(ctx, []int64{songID})
	if err != nil {
		return store.Playlist{}, err
	}
	if _, err := membership.Validate([]int64{songID}, existing); err != nil {
		return store.Playlist{}, fieldError("song_id", err)
	}

	playlist, err := s.store.EditPlaylistSongs(ctx, id, func(current []int64) ([]int64, error) {
		return membership.Append(current, songID), nil
	})
	if err != nil {
		return store.Playlist{}, err
	}
	s.publish(ctx, events.PlaylistSongAdded, id, map[string]any{"song_id": songID, "songs": playlist.Songs})
	return playlist, nil
}

func (s *service) MoveSong(ctx context.Context, id, songID int64, position int) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}

	playlist, err := s.store.EditPlaylistSongs(ctx, id, func(current []int64) ([]int64, error) {
		return membership.Move(current, songID, position)
	})
	if err != nil {
		return store.Playlist{}, err
	}
	s.publish(ctx, events.PlaylistSongMoved, id, map[string]any{"song_id": songID, "position": position, "songs": playlist.Songs})
	return playlist, nil
}

func (s *service) RemoveSong(ctx context.Context, id, songID int64) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}

	playlist, err := s.store.EditPlaylistSongs(ctx, id, func(current []int64) ([]int64, error) {
		return membership.Remove(current, songID)
	})
	if err != nil {
		return store.Playlist{}, err
	}
	s.publish(ctx, events.PlaylistSongRemoved, id, map[string]any{"song_id": songID, "songs": playlist.Songs})
	return playlist, nil
}

// validateInput checks the name and, when present, that every song id exists.
// All field problems are reported together.
func (s *service) validateInput(ctx context.Context, in Input) (string, []int64, error) {
	errs := validate.FieldErrors{}

	var name string
	if in.Name == nil {
		errs.Add("name", validate.MsgRequired)
	} else {
		name = validate.Text(errs, "name", *in.Name, maxNameLength)
	}

	if in.songsNull {
		errs.Add("songs", msgNull)
	} else if in.Songs != nil {
		existing, err := s.store.ExistingSongIDs(ctx, in.Songs)
		if err != nil {
			return "", nil, err
		}
		if _, err := membership.Validate(in.Songs, existing); err != nil {
			errs.Add("songs", err.Error())
		}
	}

	if err := errs.Err(); err != nil {
		return "", nil, err
	}
	return name, in.Songs, nil
}

func (s *service) publish(ctx context.Context, eventType string, playlistID int64, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["playlist_id"] = playlistID
	s.events.Publish(ctx, events.Event{Type: eventType, Payload: payload})
}

// fieldError reports a membership validation failure against field.
func fieldError(field string, err error) error {
	var invalid *membership.ValidationError
	if errors.As(err, &invalid) {
		return validate.FieldErrors{field: {invalid.Error()}}
	}
	return err
}
