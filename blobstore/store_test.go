package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	// Missing artifact
	_, err := store.Get(ctx, "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)

	// Put / Get
	require.NoError(t, store.Put(ctx, "datasets/page_01.json", []byte(`[1]`)))
	require.NoError(t, store.Put(ctx, "datasets/page_02.json", []byte(`[2]`)))
	require.NoError(t, store.Put(ctx, "clean/page_01.json", []byte(`[]`)))

	data, err := store.Get(ctx, "datasets/page_01.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), data)

	// Overwrite
	require.NoError(t, store.Put(ctx, "datasets/page_01.json", []byte(`[1,1]`)))
	data, err = store.Get(ctx, "datasets/page_01.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1,1]`), data)

	// List is prefix-scoped and sorted ascending
	names, err := store.List(ctx, "datasets/")
	require.NoError(t, err)
	assert.Equal(t, []string{"datasets/page_01.json", "datasets/page_02.json"}, names)

	// Delete is idempotent
	require.NoError(t, store.Delete(ctx, "datasets/page_02.json"))
	require.NoError(t, store.Delete(ctx, "datasets/page_02.json"))
	_, err = store.Get(ctx, "datasets/page_02.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(t.TempDir() + "/does-not-exist-yet")
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "a", []byte("abc")))

	data, err := store.Get(ctx, "a")
	require.NoError(t, err)
	data[0] = 'x'

	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
