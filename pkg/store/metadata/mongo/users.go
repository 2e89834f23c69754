package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"filevault/pkg/store/metadata"
)

// userDoc is the wire shape of a users-collection document.
// The password field holds the one-way hash, never plaintext.
type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
}

func (d *userDoc) toUser() *metadata.User {
	return &metadata.User{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.Password,
	}
}

func (s *MongoStore) CreateUser(ctx context.Context, email, passwordHash string) (*metadata.User, error) {
	// Pre-check keeps the common duplicate path off the index error,
	// the unique index backstops the race.
	err := s.users.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return nil, metadata.ErrDuplicateEmail
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	doc := userDoc{Email: email, Password: passwordHash}
	result, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, metadata.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	doc.ID = result.InsertedID.(primitive.ObjectID)
	return doc.toUser(), nil
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*metadata.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, metadata.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return doc.toUser(), nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*metadata.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, metadata.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return doc.toUser(), nil
}
