package httpapi

import (
	"net/http"

	"setlist/internal/app/songs"
	"setlist/internal/pagination"
)

func (s *Server) listSongs(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.songs.List(r.Context(), page)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagination.NewEnvelope(result, r.URL.Path))
}

func (s *Server) createSong(w http.ResponseWriter, r *http.Request) {
	var payload songs.Input
	if err := decodeJSON(r, &payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return
	}

	song, err := s.songs.Create(r.Context(), payload)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func (s *Server) getSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	song, err := s.songs.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) deleteSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.songs.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
