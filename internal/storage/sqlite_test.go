package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func Test_Open_RequiresPath(t *testing.T) {
	// when
	_, err := Open("")

	// then
	require.Error(t, err)
}

func Test_SQLiteStore_LoadMissingKey(t *testing.T) {
	// given
	store := openTestStore(t, filepath.Join(t.TempDir(), "snap.db"))

	// when
	_, err := store.Load(context.Background(), "inventory")

	// then
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_SQLiteStore_SaveAndLoad(t *testing.T) {
	// given
	store := openTestStore(t, filepath.Join(t.TempDir(), "snap.db"))

	// when
	err := store.Save(context.Background(), "inventory", []byte(`[{"id":"1"}]`))
	require.NoError(t, err)
	got, err := store.Load(context.Background(), "inventory")

	// then
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"1"}]`), got)
}

func Test_SQLiteStore_SaveOverwrites(t *testing.T) {
	// given
	store := openTestStore(t, filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, store.Save(context.Background(), "salesLog", []byte(`[]`)))

	// when
	require.NoError(t, store.Save(context.Background(), "salesLog", []byte(`[{"id":7}]`)))
	got, err := store.Load(context.Background(), "salesLog")

	// then
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":7}]`), got)
}

func Test_SQLiteStore_KeysAreIndependent(t *testing.T) {
	// given
	store := openTestStore(t, filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, store.Save(context.Background(), "inventory", []byte(`[1]`)))
	require.NoError(t, store.Save(context.Background(), "salesLog", []byte(`[2]`)))

	// when / then
	inv, err := store.Load(context.Background(), "inventory")
	require.NoError(t, err)
	log, err := store.Load(context.Background(), "salesLog")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), inv)
	assert.Equal(t, []byte(`[2]`), log)
}

func Test_SQLiteStore_PersistsAcrossReopen(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "snap.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "inventory", []byte(`["kept"]`)))
	require.NoError(t, store.Close())

	// when: reopening runs migrations again against an up-to-date schema
	reopened := openTestStore(t, path)
	got, err := reopened.Load(context.Background(), "inventory")

	// then
	require.NoError(t, err)
	assert.Equal(t, []byte(`["kept"]`), got)
}
