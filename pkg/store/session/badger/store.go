// Package badger implements the session store on BadgerDB.
//
// BadgerDB is an embedded key-value store with native per-entry TTL,
// which makes expiry authoritative at the storage layer: an expired
// token simply stops existing, no application-level sweep required.
package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"filevault/internal/logger"
	"filevault/pkg/store/session"
)

// keyPrefix namespaces session entries so the store can share a
// badger directory with other data.
const keyPrefix = "auth_"

// BadgerSessionStore implements session.Store using BadgerDB.
//
// Thread safety: BadgerDB transactions are safe for concurrent use;
// this store adds no mutable state beyond the db handle.
type BadgerSessionStore struct {
	db  *badger.DB
	ttl time.Duration
}

// Config contains the settings for the badger-backed session store.
type Config struct {
	// Path is the directory holding the badger database.
	Path string `mapstructure:"path"`
}

// NewBadgerSessionStore opens (or creates) the database at path.
// A non-positive ttl falls back to session.DefaultTTL.
func NewBadgerSessionStore(ctx context.Context, cfg Config, ttl time.Duration) (*BadgerSessionStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = session.DefaultTTL
	}

	opts := badger.DefaultOptions(cfg.Path).
		WithLogger(nil) // badger's own logger is noisy; failures surface as errors anyway

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger session store: %w", err)
	}

	logger.Info("Session store opened at %s (ttl %v)", cfg.Path, ttl)

	return &BadgerSessionStore{db: db, ttl: ttl}, nil
}

func sessionKey(token string) []byte {
	return []byte(keyPrefix + token)
}

func (s *BadgerSessionStore) Create(ctx context.Context, userID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// uuid.NewString draws from crypto/rand, satisfying the
	// cryptographically-strong token requirement.
	token := uuid.NewString()

	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(sessionKey(token), []byte(userID)).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

func (s *BadgerSessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var userID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(token))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		// Unknown and expired tokens are the same outcome: badger
		// hides entries past their TTL before compaction removes them.
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}

	return userID, nil
}

func (s *BadgerSessionStore) Revoke(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(token))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// Healthcheck probes the database with a read-only transaction.
func (s *BadgerSessionStore) Healthcheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyPrefix + "healthcheck"))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Close flushes and closes the database.
func (s *BadgerSessionStore) Close(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Close()
}
