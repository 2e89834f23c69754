// Package auth implements the access gate: token authentication via
// the session store and ownership/visibility authorization for file
// operations. It is the only place where policy spans components.
package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"filevault/pkg/store/metadata"
	"filevault/pkg/store/session"
)

// ErrUnauthorized is returned uniformly for a missing token header, an
// unknown token, and an expired session.
var ErrUnauthorized = metadata.NewError(metadata.ErrUnauthorized, "Unauthorized")

// Gate authorizes every file operation.
type Gate struct {
	sessions session.Store
}

// NewGate wires the gate to its session store.
func NewGate(sessions session.Store) *Gate {
	return &Gate{sessions: sessions}
}

// Login creates a session for a verified user and returns the token.
func (g *Gate) Login(ctx context.Context, userID primitive.ObjectID) (string, error) {
	return g.sessions.Create(ctx, userID.Hex())
}

// Logout revokes the session behind token. An invalid token is
// ErrUnauthorized, matching the authenticate-then-act shape of every
// token-gated operation.
func (g *Gate) Logout(ctx context.Context, token string) error {
	if _, err := g.Authenticate(ctx, token); err != nil {
		return err
	}
	return g.sessions.Revoke(ctx, token)
}

// Authenticate resolves a token header value to the owning user id.
// Empty, unknown, and expired tokens are all ErrUnauthorized.
func (g *Gate) Authenticate(ctx context.Context, token string) (primitive.ObjectID, error) {
	if token == "" {
		return primitive.NilObjectID, ErrUnauthorized
	}

	raw, err := g.sessions.Resolve(ctx, token)
	if err == session.ErrNotFound {
		return primitive.NilObjectID, ErrUnauthorized
	}
	if err != nil {
		return primitive.NilObjectID, err
	}

	userID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		// A session bound to a malformed user id is unusable; treat it
		// like any other invalid credential.
		return primitive.NilObjectID, ErrUnauthorized
	}

	return userID, nil
}

// AuthorizeRead allows access iff the file is public or the
// authenticated requester owns it. Denial is always ErrFileNotFound:
// unauthorized callers can never distinguish "private" from
// "nonexistent".
func (g *Gate) AuthorizeRead(file *metadata.File, requesterID primitive.ObjectID, authenticated bool) error {
	if file.IsPublic {
		return nil
	}
	if authenticated && file.OwnerID == requesterID {
		return nil
	}
	return metadata.ErrFileNotFound
}

// AuthorizeWrite allows access iff the requester owns the file, with
// the same existence-hiding denial as AuthorizeRead.
func (g *Gate) AuthorizeWrite(file *metadata.File, requesterID primitive.ObjectID) error {
	if file.OwnerID == requesterID {
		return nil
	}
	return metadata.ErrFileNotFound
}
