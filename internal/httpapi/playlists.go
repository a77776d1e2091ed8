package httpapi

import (
	"net/http"

	"setlist/internal/app/playlists"
	"setlist/internal/pagination"
	"setlist/internal/validate"
)

type addSongRequest struct {
	SongID *int64 `json:"song_id"`
}

type moveSongRequest struct {
	Position *int `json:"position"`
}

func (s *Server) listPlaylists(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.playlists.List(r.Context(), page)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagination.NewEnvelope(result, r.URL.Path))
}

func (s *Server) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var payload playlists.Input
	if err := decodeJSON(r, &payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return
	}

	playlist, err := s.playlists.Create(r.Context(), payload)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

func (s *Server) getPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	playlist, err := s.playlists.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) updatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var payload playlists.Input
	if err := decodeJSON(r, &payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return
	}

	playlist, err := s.playlists.Update(r.Context(), id, payload)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.playlists.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listPlaylistSongs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	page, err := pageParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.playlists.ListSongs(r.Context(), id, page)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagination.NewEnvelope(result, r.URL.Path))
}

func (s *Server) addPlaylistSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var payload addSongRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return
	}
	if payload.SongID == nil {
		writeJSON(w, http.StatusBadRequest, validate.FieldErrors{"song_id": {validate.MsgRequired}})
		return
	}

	playlist, err := s.playlists.AddSong(r.Context(), id, *payload.SongID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) movePlaylistSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	songID, ok := pathID(w, r, "song_id")
	if !ok {
		return
	}

	var payload moveSongRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return
	}
	if payload.Position == nil {
		writeJSON(w, http.StatusBadRequest, validate.FieldErrors{"position": {validate.MsgRequired}})
		return
	}

	playlist, err := s.playlists.MoveSong(r.Context(), id, songID, *payload.Position)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) removePlaylistSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	songID, ok := pathID(w, r, "song_id")
	if !ok {
		return
	}

	playlist, err := s.playlists.RemoveSong(r.Context(), id, songID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}
