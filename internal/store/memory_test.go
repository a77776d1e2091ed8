package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSongs(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, name := range []string{"One", "Two", "Three"} {
		_, err := m.CreateSong(ctx, Song{Name: name, Artist: "Band", ReleaseYear: 2000})
		require.NoError(t, err)
	}

	count, err := m.CountSongs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	page, err := m.ListSongs(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Three", page[0].Name)

	require.NoError(t, m.DeleteSong(ctx, 2))
	assert.ErrorIs(t, m.DeleteSong(ctx, 2), ErrSongNotFound)

	existing, err := m.ExistingSongIDs(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[int64]struct{}{1: {}, 3: {}}, existing)

	_, err = m.GetSong(ctx, 2)
	assert.ErrorIs(t, err, ErrSongNotFound)
}

func TestMemoryStorePlaylistsAreCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	songs := []int64{1, 2}
	p, err := m.CreatePlaylist(ctx, "Mix", songs)
	require.NoError(t, err)
	songs[0] = 99
	p.Songs[1] = 98

	got, err := m.GetPlaylist(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, got.Songs)

	got, err = m.UpdatePlaylist(ctx, p.ID, "Renamed", nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, []int64{1, 2}, got.Songs)

	got, err = m.UpdatePlaylist(ctx, p.ID, "Renamed", []int64{})
	require.NoError(t, err)
	assert.Empty(t, got.Songs)
	assert.NotNil(t, got.Songs)
}

func TestMemoryStoreEditPlaylistSongs(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	p, err := m.CreatePlaylist(ctx, "Mix", []int64{1})
	require.NoError(t, err)

	rejected := errors.New("rejected")
	_, err = m.EditPlaylistSongs(ctx, p.ID, func(current []int64) ([]int64, error) {
		current[0] = 42
		return nil, rejected
	})
	assert.ErrorIs(t, err, rejected)

	got, err := m.GetPlaylist(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, got.Songs)

	_, err = m.EditPlaylistSongs(ctx, 404, func(current []int64) ([]int64, error) { return current, nil })
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}

func TestMemoryStoreConcurrentEditsAreNotLost(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	p, err := m.CreatePlaylist(ctx, "Mix", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, _ = m.EditPlaylistSongs(ctx, p.ID, func(current []int64) ([]int64, error) {
				return append(current, id), nil
			})
		}(int64(i))
	}
	wg.Wait()

	got, err := m.GetPlaylist(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Songs, 50)
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().CountPlaylists(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
