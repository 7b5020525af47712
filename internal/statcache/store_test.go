package statcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "cache", "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fetched := time.UnixMilli(time.Now().UnixMilli())

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(ctx, "github/repo")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Put(ctx, "github/repo", Entry{Body: []byte(`{"stars":1}`), FetchedAt: fetched}))

			got, ok, err := store.Get(ctx, "github/repo")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `{"stars":1}`, string(got.Body))
			assert.True(t, fetched.Equal(got.FetchedAt))

			later := fetched.Add(time.Minute)
			require.NoError(t, store.Put(ctx, "github/repo", Entry{Body: []byte(`{"stars":2}`), FetchedAt: later}))

			got, ok, err = store.Get(ctx, "github/repo")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `{"stars":2}`, string(got.Body))
			assert.True(t, later.Equal(got.FetchedAt))
		})
	}
}

func TestMemoryStoreCopiesBodies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	body := []byte("abc")
	require.NoError(t, store.Put(ctx, "k", Entry{Body: body}))
	body[0] = 'x'

	got, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got.Body))
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stats.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "version", Entry{Body: []byte(`{"version":"0.0.6"}`), FetchedAt: time.Now()}))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	got, ok, err := second.Get(ctx, "version")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"version":"0.0.6"}`, string(got.Body))
}

func TestNew(t *testing.T) {
	store, err := New("", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = New(DriverSQLite, filepath.Join(t.TempDir(), "s.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = New("redis", "")
	assert.Error(t, err)
}
