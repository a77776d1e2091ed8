package songs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setlist/internal/pagination"
	"setlist/internal/store"
	"setlist/internal/validate"
)

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T, n int) *store.MemoryStore {
	t.Helper()
	m := store.NewMemory()
	for i := range n {
		_, err := m.CreateSong(context.Background(), store.Song{Name: "Song", Artist: "Artist", ReleaseYear: 1990 + i})
		require.NoError(t, err)
	}
	return m
}

func TestListPaginates(t *testing.T) {
	svc := New(seed(t, 15))

	page, err := svc.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 15, page.Window.Count)
	require.Len(t, page.Items, 5)
	assert.Equal(t, int64(11), page.Items[0].ID)
	assert.False(t, page.Window.HasNext())
	assert.True(t, page.Window.HasPrevious())

	_, err = svc.List(context.Background(), 3)
	assert.ErrorIs(t, err, pagination.ErrPageOutOfRange)
}

func TestListEmptyCatalogHasFirstPage(t *testing.T) {
	page, err := New(store.NewMemory()).List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Window.Count)
	assert.Empty(t, page.Items)
}

func TestCreateTrimsAndStores(t *testing.T) {
	m := store.NewMemory()
	svc := New(m)

	song, err := svc.Create(context.Background(), Input{
		Name:        ptr("  Hey Jude "),
		Artist:      ptr("The Beatles"),
		ReleaseYear: ptr(int64(1968)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), song.ID)
	assert.Equal(t, "Hey Jude", song.Name)

	got, err := svc.Get(context.Background(), song.ID)
	require.NoError(t, err)
	assert.Equal(t, song, got)
}

func TestCreateReportsEveryField(t *testing.T) {
	_, err := New(store.NewMemory()).Create(context.Background(), Input{
		Name:        ptr("   "),
		ReleaseYear: ptr(int64(1) << 40),
	})

	var fieldErrs validate.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Equal(t, []string{validate.MsgBlank}, fieldErrs["name"])
	assert.Equal(t, []string{validate.MsgRequired}, fieldErrs["artist"])
	assert.Equal(t, []string{"Ensure this value is less than or equal to 2147483647."}, fieldErrs["release_year"])
}

func TestCreateRejectsLongName(t *testing.T) {
	long := make([]byte, maxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := New(store.NewMemory()).Create(context.Background(), Input{
		Name:        ptr(string(long)),
		Artist:      ptr("Artist"),
		ReleaseYear: ptr(int64(2000)),
	})

	var fieldErrs validate.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Contains(t, fieldErrs, "name")
	assert.NotContains(t, fieldErrs, "artist")
}

func TestDeleteMissingSong(t *testing.T) {
	err := New(store.NewMemory()).Delete(context.Background(), 9)
	assert.ErrorIs(t, err, store.ErrSongNotFound)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(store.NewMemory()).List(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
