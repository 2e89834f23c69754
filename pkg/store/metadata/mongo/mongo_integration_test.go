//go:build integration

package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"filevault/pkg/store/metadata"
)

// TestMongoStore_Integration exercises the MongoDB backend against a
// live server.
//
// Prerequisites:
//   - A running MongoDB instance (default: mongodb://localhost:27017,
//     override with FILEVAULT_TEST_MONGO_URI)
//   - Run with: go test -tags=integration ./pkg/store/metadata/mongo/...
//
// Each run uses a fresh database named after the current time and
// drops it on exit.
func TestMongoStore_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	uri := os.Getenv("FILEVAULT_TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	store, err := NewMongoStore(ctx, Config{
		URI:      uri,
		Database: fmt.Sprintf("filevault_test_%d", time.Now().UnixNano()),
	})
	require.NoError(t, err)
	defer func() {
		_ = store.files.Database().Drop(ctx)
		_ = store.Close(ctx)
	}()

	require.NoError(t, store.Healthcheck(ctx))

	t.Run("users", func(t *testing.T) {
		user, err := store.CreateUser(ctx, "a@a.com", "hash")
		require.NoError(t, err)
		assert.False(t, user.ID.IsZero())

		_, err = store.CreateUser(ctx, "a@a.com", "hash2")
		code, ok := metadata.ErrCode(err)
		require.True(t, ok)
		assert.Equal(t, metadata.ErrAlreadyExists, code)

		found, err := store.FindUserByEmail(ctx, "a@a.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("files round trip", func(t *testing.T) {
		owner := primitive.NewObjectID()

		folder, err := store.InsertFile(ctx, &metadata.File{
			OwnerID: owner,
			Name:    "root",
			Type:    metadata.FileTypeFolder,
			Parent:  metadata.RootParent(),
		})
		require.NoError(t, err)

		child, err := store.InsertFile(ctx, &metadata.File{
			OwnerID:  owner,
			Name:     "doc.txt",
			Type:     metadata.FileTypeFile,
			Parent:   metadata.ParentOf(folder.ID),
			Location: "/tmp/blob-1",
		})
		require.NoError(t, err)

		got, err := store.FindFileOwned(ctx, child.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, metadata.ParentOf(folder.ID), got.Parent)
		assert.Equal(t, "/tmp/blob-1", got.Location)

		// Root parent survives the numeric-zero round trip.
		gotFolder, err := store.FindFile(ctx, folder.ID)
		require.NoError(t, err)
		assert.True(t, gotFolder.Parent.IsRoot())

		listed, err := store.ListFiles(ctx, owner, metadata.ParentOf(folder.ID), 0)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "doc.txt", listed[0].Name)

		published, err := store.SetFileVisibility(ctx, child.ID, owner, true)
		require.NoError(t, err)
		assert.True(t, published.IsPublic)

		_, err = store.FindFileOwned(ctx, child.ID, primitive.NewObjectID())
		assert.True(t, metadata.IsNotFound(err))
	})
}
