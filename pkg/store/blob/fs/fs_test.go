package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filevault/pkg/store/blob"
)

func newTestStore(t *testing.T) *FSBlobStore {
	t.Helper()

	store, err := NewFSBlobStore(context.Background(), Config{Path: t.TempDir()})
	require.NoError(t, err)
	return store
}

func TestStoreAndRetrieve(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	location, err := store.Store(ctx, []byte("hello"))
	require.NoError(t, err)
	require.NotEmpty(t, location)

	rc, err := store.Retrieve(ctx, location, "")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestLocationsNeverReused(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Store(ctx, []byte("one"))
	require.NoError(t, err)
	second, err := store.Store(ctx, []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRetrieveMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Retrieve(ctx, filepath.Join(t.TempDir(), "nope"), "")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestRetrieveVariant(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	location, err := store.Store(ctx, []byte("full size"))
	require.NoError(t, err)

	t.Run("missing variant is not found even when the base exists", func(t *testing.T) {
		_, err := store.Retrieve(ctx, location, "250")
		assert.ErrorIs(t, err, blob.ErrNotFound)
	})

	t.Run("existing variant is served", func(t *testing.T) {
		require.NoError(t, os.WriteFile(location+"_250", []byte("small"), 0644))

		rc, err := store.Retrieve(ctx, location, "250")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, []byte("small"), data)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	location, err := store.Store(ctx, []byte("orphan"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, location))

	_, err = store.Retrieve(ctx, location, "")
	assert.ErrorIs(t, err, blob.ErrNotFound)

	t.Run("missing location is not an error", func(t *testing.T) {
		assert.NoError(t, store.Remove(ctx, location))
	})
}

func TestStoreRecreatesContentRoot(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "content")

	store, err := NewFSBlobStore(ctx, Config{Path: root})
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(root))

	location, err := store.Store(ctx, []byte("resilient"))
	require.NoError(t, err)

	rc, err := store.Retrieve(ctx, location, "")
	require.NoError(t, err)
	rc.Close()
}
