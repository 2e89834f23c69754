package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filevault/pkg/store/session"
)

func newTestStore(t *testing.T, ttl time.Duration) *BadgerSessionStore {
	t.Helper()

	ctx := context.Background()
	store, err := NewBadgerSessionStore(ctx, Config{Path: t.TempDir()}, ttl)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close(context.Background())
	})

	return store
}

func TestCreateAndResolve(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)

	token, err := store.Create(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	t.Run("tokens are unique", func(t *testing.T) {
		other, err := store.Create(ctx, "user-1")
		require.NoError(t, err)
		assert.NotEqual(t, token, other)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := store.Resolve(ctx, "not-a-token")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestMultipleSessionsPerUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)

	first, err := store.Create(ctx, "user-1")
	require.NoError(t, err)
	second, err := store.Create(ctx, "user-1")
	require.NoError(t, err)

	// Both sessions stay valid concurrently.
	for _, token := range []string{first, second} {
		userID, err := store.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	}
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Hour)

	token, err := store.Create(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, token))

	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, session.ErrNotFound)

	t.Run("idempotent", func(t *testing.T) {
		assert.NoError(t, store.Revoke(ctx, token))
		assert.NoError(t, store.Revoke(ctx, "never-existed"))
	})
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 500*time.Millisecond)

	token, err := store.Create(ctx, "user-1")
	require.NoError(t, err)

	_, err = store.Resolve(ctx, token)
	require.NoError(t, err, "token must resolve before expiry")

	time.Sleep(time.Second)

	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, session.ErrNotFound, "expired token must be absent")
}

func TestHealthcheck(t *testing.T) {
	store := newTestStore(t, time.Hour)
	assert.NoError(t, store.Healthcheck(context.Background()))
}
