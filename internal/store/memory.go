package store

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryStore keeps songs and playlists in process memory. It mirrors the
// Postgres Store method for method and is used for local runs and tests.
type MemoryStore struct {
	mu             sync.RWMutex
	songs          map[int64]Song
	playlists      map[int64]Playlist
	nextSongID     int64
	nextPlaylistID int64
}

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		songs:          make(map[int64]Song),
		playlists:      make(map[int64]Playlist),
		nextSongID:     1,
		nextPlaylistID: 1,
	}
}

func (m *MemoryStore) CountSongs(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.songs), nil
}

func (m *MemoryStore) ListSongs(ctx context.Context, limit, offset int) ([]Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := window(slices.Sorted(maps.Keys(m.songs)), limit, offset)
	songs := make([]Song, 0, len(ids))
	for _, id := range ids {
		songs = append(songs, m.songs[id])
	}
	return songs, nil
}

func (m *MemoryStore) GetSong(ctx context.Context, id int64) (Song, error) {
	if err := ctx.Err(); err != nil {
		return Song{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	song, ok := m.songs[id]
	if !ok {
		return Song{}, ErrSongNotFound
	}
	return song, nil
}

func (m *MemoryStore) CreateSong(ctx context.Context, song Song) (Song, error) {
	if err := ctx.Err(); err != nil {
		return Song{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	song.ID = m.nextSongID
	m.nextSongID++
	m.songs[song.ID] = song
	return song, nil
}

func (m *MemoryStore) DeleteSong(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.songs[id]; !ok {
		return ErrSongNotFound
	}
	delete(m.songs, id)
	return nil
}

func (m *MemoryStore) ExistingSongIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	existing := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := m.songs[id]; ok {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

func (m *MemoryStore) SongsByID(ctx context.Context, ids []int64) (map[int64]Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make(map[int64]Song, len(ids))
	for _, id := range ids {
		if song, ok := m.songs[id]; ok {
			found[id] = song
		}
	}
	return found, nil
}

func (m *MemoryStore) CountPlaylists(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.playlists), nil
}

func (m *MemoryStore) ListPlaylists(ctx context.Context, limit, offset int) ([]PlaylistSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := window(slices.Sorted(maps.Keys(m.playlists)), limit, offset)
	result := make([]PlaylistSummary, 0, len(ids))
	for _, id := range ids {
		result = append(result, PlaylistSummary{ID: id, Name: m.playlists[id].Name})
	}
	return result, nil
}

func (m *MemoryStore) GetPlaylist(ctx context.Context, id int64) (Playlist, error) {
	if err := ctx.Err(); err != nil {
		return Playlist{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	playlist, ok := m.playlists[id]
	if !ok {
		return Playlist{}, ErrPlaylistNotFound
	}
	return clonePlaylist(playlist), nil
}

func (m *MemoryStore) CreatePlaylist(ctx context.Context, name string, songs []int64) (Playlist, error) {
	if err := ctx.Err(); err != nil {
		return Playlist{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	playlist := Playlist{ID: m.nextPlaylistID, Name: name, Songs: normalize(slices.Clone(songs))}
	m.nextPlaylistID++
	m.playlists[playlist.ID] = playlist
	return clonePlaylist(playlist), nil
}

func (m *MemoryStore) UpdatePlaylist(ctx context.Context, id int64, name string, songs []int64) (Playlist, error) {
	if err := ctx.Err(); err != nil {
		return Playlist{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	playlist, ok := m.playlists[id]
	if !ok {
		return Playlist{}, ErrPlaylistNotFound
	}
	playlist.Name = name
	if songs != nil {
		playlist.Songs = slices.Clone(songs)
	}
	m.playlists[id] = playlist
	return clonePlaylist(playlist), nil
}

func (m *MemoryStore) DeletePlaylist(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.playlists[id]; !ok {
		return ErrPlaylistNotFound
	}
	delete(m.playlists, id)
	return nil
}

// EditPlaylistSongs holds the write lock for the whole read-modify-write, so
// edits are serialized across every playlist.
func (m *MemoryStore) EditPlaylistSongs(ctx context.Context, id int64, edit SongsEdit) (Playlist, error) {
	if err := ctx.Err(); err != nil {
		return Playlist{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	playlist, ok := m.playlists[id]
	if !ok {
		return Playlist{}, ErrPlaylistNotFound
	}
	songs, err := edit(slices.Clone(playlist.Songs))
	if err != nil {
		return Playlist{}, err
	}
	playlist.Songs = normalize(slices.Clone(songs))
	m.playlists[id] = playlist
	return clonePlaylist(playlist), nil
}

func clonePlaylist(p Playlist) Playlist {
	p.Songs = normalize(slices.Clone(p.Songs))
	return p
}

func window(ids []int64, limit, offset int) []int64 {
	if offset >= len(ids) {
		return nil
	}
	return ids[offset:min(offset+limit, len(ids))]
}
