// Package mongo implements the metadata store on a MongoDB document
// store.
//
// Storage model: two collections, "users" and "files". File parent
// references are stored the way the rest of the ecosystem stores them:
// the numeric 0 for the hierarchy root, an ObjectID otherwise. The
// conversion to the tagged metadata.ParentRef happens entirely inside
// this package.
//
// Thread safety: the driver's client is safe for concurrent use; this
// package adds no state of its own.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"filevault/internal/logger"
)

// MongoStore implements metadata.Store backed by MongoDB.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	files  *mongo.Collection
}

// Config contains the settings needed to reach the document store.
type Config struct {
	// URI is the MongoDB connection string.
	URI string `mapstructure:"uri"`

	// Database is the database holding the users and files collections.
	Database string `mapstructure:"database"`
}

// NewMongoStore connects to MongoDB, verifies the connection with a
// ping, and ensures the unique email index exists.
func NewMongoStore(ctx context.Context, cfg Config) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	store := &MongoStore{
		client: client,
		users:  db.Collection("users"),
		files:  db.Collection("files"),
	}

	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("Connected to MongoDB at %s (database %q)", cfg.URI, cfg.Database)

	return store, nil
}

// ensureIndexes creates the unique index on users.email. Uniqueness is
// still pre-checked at registration time; the index closes the
// check-then-insert race at the store level.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

func (s *MongoStore) CountUsers(ctx context.Context) (int64, error) {
	count, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (s *MongoStore) CountFiles(ctx context.Context) (int64, error) {
	count, err := s.files.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return count, nil
}

// Healthcheck pings the primary. Used by the /status endpoint.
func (s *MongoStore) Healthcheck(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
