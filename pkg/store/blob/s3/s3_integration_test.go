//go:build integration

package s3

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filevault/pkg/store/blob"
)

// TestS3BlobStore_Integration exercises the S3 backend against an
// S3-compatible endpoint.
//
// Prerequisites:
//   - MinIO or Localstack with a pre-created bucket
//     (default endpoint http://localhost:9000, bucket "filevault-test";
//     override with FILEVAULT_TEST_S3_ENDPOINT / FILEVAULT_TEST_S3_BUCKET)
//   - Run with: go test -tags=integration ./pkg/store/blob/s3/...
func TestS3BlobStore_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	endpoint := os.Getenv("FILEVAULT_TEST_S3_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	bucket := os.Getenv("FILEVAULT_TEST_S3_BUCKET")
	if bucket == "" {
		bucket = "filevault-test"
	}

	store, err := NewS3BlobStore(ctx, Config{
		Region:          "us-east-1",
		Bucket:          bucket,
		KeyPrefix:       "integration/",
		Endpoint:        endpoint,
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
	})
	require.NoError(t, err)

	location, err := store.Store(ctx, []byte("hello s3"))
	require.NoError(t, err)
	defer func() { _ = store.Remove(ctx, location) }()

	rc, err := store.Retrieve(ctx, location, "")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello s3"), data)

	t.Run("missing variant", func(t *testing.T) {
		_, err := store.Retrieve(ctx, location, "500")
		assert.ErrorIs(t, err, blob.ErrNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, location))
		_, err := store.Retrieve(ctx, location, "")
		assert.ErrorIs(t, err, blob.ErrNotFound)
	})
}
