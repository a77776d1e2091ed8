package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"setlist/internal/app/playlists"
	"setlist/internal/app/songs"
	"setlist/internal/logging"
	"setlist/internal/membership"
	"setlist/internal/pagination"
	"setlist/internal/store"
	"setlist/internal/validate"
)

// SongService exposes catalog workflows.
type SongService interface {
	List(ctx context.Context, page int) (pagination.Page[store.Song], error)
	Get(ctx context.Context, id int64) (store.Song, error)
	Create(ctx context.Context, in songs.Input) (store.Song, error)
	Delete(ctx context.Context, id int64) error
}

// PlaylistService coordinates playlist-related operations.
type PlaylistService interface {
	List(ctx context.Context, page int) (pagination.Page[store.PlaylistSummary], error)
	Get(ctx context.Context, id int64) (store.Playlist, error)
	Create(ctx context.Context, in playlists.Input) (store.Playlist, error)
	Update(ctx context.Context, id int64, in playlists.Input) (store.Playlist, error)
	Delete(ctx context.Context, id int64) error
	ListSongs(ctx context.Context, id int64, page int) (pagination.Page[playlists.PlaylistSong], error)
	AddSong(ctx context.Context, id, songID int64) (store.Playlist, error)
	MoveSong(ctx context.Context, id, songID int64, position int) (store.Playlist, error)
	RemoveSong(ctx context.Context, id, songID int64) (store.Playlist, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	songs     SongService
	playlists PlaylistService
}

// New configures a Server with the given services.
func New(songs SongService, playlists PlaylistService) *Server {
	return &Server{songs: songs, playlists: playlists}
}

// Routes exposes the HTTP handlers for the catalog and playlists.
func (s *Server) Routes() *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, `Method "`+r.Method+`" not allowed.`)
	})

	// Routes stay on the root router: a subrouter under a custom
	// NotFoundHandler reports method mismatches as 404.
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/songs", s.listSongs).Methods(http.MethodGet)
	router.HandleFunc("/api/songs", s.createSong).Methods(http.MethodPost)
	router.HandleFunc("/api/songs/{id:[0-9]+}", s.getSong).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/{id:[0-9]+}", s.deleteSong).Methods(http.MethodDelete)

	router.HandleFunc("/api/playlists", s.listPlaylists).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists", s.createPlaylist).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id:[0-9]+}", s.getPlaylist).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id:[0-9]+}", s.updatePlaylist).Methods(http.MethodPut)
	router.HandleFunc("/api/playlists/{id:[0-9]+}", s.deletePlaylist).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id:[0-9]+}/songs", s.listPlaylistSongs).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id:[0-9]+}/songs", s.addPlaylistSong).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id:[0-9]+}/songs/{song_id:[0-9]+}", s.movePlaylistSong).Methods(http.MethodPut)
	router.HandleFunc("/api/playlists/{id:[0-9]+}/songs/{song_id:[0-9]+}", s.removePlaylistSong).Methods(http.MethodDelete)

	return router
}

// respondError maps service errors onto status codes. Anything unrecognised
// is logged and reported as a 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs validate.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusBadRequest, fieldErrs)
	case errors.Is(err, store.ErrInvalidValue):
		writeDetail(w, http.StatusBadRequest, "A value is out of range for its field.")
	case errors.Is(err, store.ErrPlaylistNotFound):
		writeDetail(w, http.StatusNotFound, "Playlist does not exist.")
	case errors.Is(err, store.ErrSongNotFound):
		writeDetail(w, http.StatusNotFound, "Song does not exist.")
	case errors.Is(err, membership.ErrSongNotInPlaylist):
		writeDetail(w, http.StatusNotFound, "Song does not exist in the playlist.")
	case errors.Is(err, pagination.ErrPageOutOfRange):
		writeDetail(w, http.StatusNotFound, "Invalid page.")
	case errors.Is(err, context.Canceled):
		// The client went away; nothing useful can be written.
	default:
		logging.WithContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON object body into dst. An empty body leaves dst
// untouched so that missing fields surface as field errors.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func pageParam(r *http.Request) (int, error) {
	return pagination.ParsePage(r.URL.Query().Get("page"))
}

// pathID reads a numeric route variable. The route patterns only admit
// digits, so a parse failure means the value overflowed int64.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return 0, false
	}
	return id, true
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
