package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"filevault/pkg/store/metadata"
	"filevault/pkg/store/session/memory"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	gate := NewGate(memory.NewMemorySessionStore(time.Hour))
	userID := primitive.NewObjectID()

	token, err := gate.Login(ctx, userID)
	require.NoError(t, err)

	resolved, err := gate.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, resolved)

	t.Run("empty token", func(t *testing.T) {
		_, err := gate.Authenticate(ctx, "")
		assert.Equal(t, ErrUnauthorized, err)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := gate.Authenticate(ctx, "bogus")
		assert.Equal(t, ErrUnauthorized, err)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	gate := NewGate(memory.NewMemorySessionStore(time.Hour))

	token, err := gate.Login(ctx, primitive.NewObjectID())
	require.NoError(t, err)

	require.NoError(t, gate.Logout(ctx, token))

	_, err = gate.Authenticate(ctx, token)
	assert.Equal(t, ErrUnauthorized, err)

	t.Run("second logout is unauthorized", func(t *testing.T) {
		assert.Equal(t, ErrUnauthorized, gate.Logout(ctx, token))
	})
}

func TestAuthorizeRead(t *testing.T) {
	gate := NewGate(memory.NewMemorySessionStore(time.Hour))
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	private := &metadata.File{OwnerID: owner, IsPublic: false}
	public := &metadata.File{OwnerID: owner, IsPublic: true}

	assert.NoError(t, gate.AuthorizeRead(private, owner, true))
	assert.NoError(t, gate.AuthorizeRead(public, stranger, true))
	assert.NoError(t, gate.AuthorizeRead(public, primitive.NilObjectID, false))

	t.Run("denial is not found", func(t *testing.T) {
		err := gate.AuthorizeRead(private, stranger, true)
		assert.Equal(t, metadata.ErrFileNotFound, err)

		err = gate.AuthorizeRead(private, primitive.NilObjectID, false)
		assert.Equal(t, metadata.ErrFileNotFound, err)
	})

	t.Run("anonymous requester never matches owner", func(t *testing.T) {
		anonOwned := &metadata.File{OwnerID: primitive.NilObjectID, IsPublic: false}
		err := gate.AuthorizeRead(anonOwned, primitive.NilObjectID, false)
		assert.Equal(t, metadata.ErrFileNotFound, err)
	})
}

func TestAuthorizeWrite(t *testing.T) {
	gate := NewGate(memory.NewMemorySessionStore(time.Hour))
	owner := primitive.NewObjectID()

	file := &metadata.File{OwnerID: owner, IsPublic: true}

	assert.NoError(t, gate.AuthorizeWrite(file, owner))

	// Public visibility grants reads, never writes.
	err := gate.AuthorizeWrite(file, primitive.NewObjectID())
	assert.Equal(t, metadata.ErrFileNotFound, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", hash, "plaintext must never equal the digest")

	assert.True(t, CheckPassword(hash, "pw"))
	assert.False(t, CheckPassword(hash, "wrong"))

	other, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "bcrypt salts every digest")
}
