package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"filevault/pkg/store/metadata"
)

// fileDoc is the wire shape of a files-collection document.
//
// ParentID is either the numeric 0 (hierarchy root) or an ObjectID;
// the untyped field absorbs both and parentRefFromBSON normalizes.
type fileDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Name      string             `bson:"name"`
	Type      string             `bson:"type"`
	IsPublic  bool               `bson:"isPublic"`
	ParentID  any                `bson:"parentId"`
	LocalPath string             `bson:"localPath,omitempty"`
}

func parentRefToBSON(p metadata.ParentRef) any {
	if p.IsRoot() {
		return int32(0)
	}
	return p.ID()
}

func parentRefFromBSON(v any) metadata.ParentRef {
	if id, ok := v.(primitive.ObjectID); ok {
		return metadata.ParentOf(id)
	}
	// Numeric zero in any width the driver decoded it as.
	return metadata.RootParent()
}

func (d *fileDoc) toFile() *metadata.File {
	return &metadata.File{
		ID:       d.ID,
		OwnerID:  d.UserID,
		Name:     d.Name,
		Type:     metadata.FileType(d.Type),
		IsPublic: d.IsPublic,
		Parent:   parentRefFromBSON(d.ParentID),
		Location: d.LocalPath,
	}
}

func docFromFile(f *metadata.File) fileDoc {
	return fileDoc{
		ID:        f.ID,
		UserID:    f.OwnerID,
		Name:      f.Name,
		Type:      string(f.Type),
		IsPublic:  f.IsPublic,
		ParentID:  parentRefToBSON(f.Parent),
		LocalPath: f.Location,
	}
}

func (s *MongoStore) InsertFile(ctx context.Context, file *metadata.File) (*metadata.File, error) {
	doc := docFromFile(file)
	doc.ID = primitive.NilObjectID

	result, err := s.files.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert file: %w", err)
	}

	out := *file
	out.ID = result.InsertedID.(primitive.ObjectID)
	return &out, nil
}

func (s *MongoStore) FindFile(ctx context.Context, id primitive.ObjectID) (*metadata.File, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FindFileOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*metadata.File, error) {
	// The owner constraint lives in the query itself, so a foreign
	// record and a missing id produce the same ErrNoDocuments.
	return s.findOne(ctx, bson.M{"_id": id, "userId": ownerID})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*metadata.File, error) {
	var doc fileDoc
	err := s.files.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, metadata.ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return doc.toFile(), nil
}

func (s *MongoStore) ListFiles(ctx context.Context, ownerID primitive.ObjectID, parent metadata.ParentRef, page int) ([]metadata.File, error) {
	if page < 0 {
		return []metadata.File{}, nil
	}

	filter := bson.M{
		"userId":   ownerID,
		"parentId": parentRefToBSON(parent),
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(page) * metadata.PageSize).
		SetLimit(metadata.PageSize)

	cursor, err := s.files.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer cursor.Close(ctx)

	files := make([]metadata.File, 0, metadata.PageSize)
	for cursor.Next(ctx) {
		var doc fileDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode file: %w", err)
		}
		files = append(files, *doc.toFile())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}

	return files, nil
}

func (s *MongoStore) SetFileVisibility(ctx context.Context, id, ownerID primitive.ObjectID, public bool) (*metadata.File, error) {
	filter := bson.M{"_id": id, "userId": ownerID}
	update := bson.M{"$set": bson.M{"isPublic": public}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc fileDoc
	err := s.files.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, metadata.ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update file visibility: %w", err)
	}
	return doc.toFile(), nil
}
