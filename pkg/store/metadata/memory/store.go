// Package memory implements an in-process metadata store.
//
// It backs tests and single-process deployments where no document
// store is available. Listing order is insertion order, which keeps
// pagination deterministic.
package memory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"filevault/pkg/store/metadata"
)

// MemoryStore implements metadata.Store on process-local maps.
//
// Thread safety: all operations are guarded by a single read-write
// mutex. Coarse, but correct, and plenty for the test and
// single-process use cases this backend serves.
type MemoryStore struct {
	mu sync.RWMutex

	usersByID    map[primitive.ObjectID]*metadata.User
	usersByEmail map[string]*metadata.User

	filesByID map[primitive.ObjectID]*metadata.File
	fileOrder []primitive.ObjectID
}

// NewMemoryStore creates an empty in-memory metadata store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usersByID:    make(map[primitive.ObjectID]*metadata.User),
		usersByEmail: make(map[string]*metadata.User),
		filesByID:    make(map[primitive.ObjectID]*metadata.File),
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, email, passwordHash string) (*metadata.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[email]; exists {
		return nil, metadata.ErrDuplicateEmail
	}

	user := &metadata.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: passwordHash,
	}
	s.usersByID[user.ID] = user
	s.usersByEmail[email] = user

	out := *user
	return &out, nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*metadata.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByEmail[email]
	if !ok {
		return nil, metadata.ErrUserNotFound
	}

	out := *user
	return &out, nil
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*metadata.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByID[id]
	if !ok {
		return nil, metadata.ErrUserNotFound
	}

	out := *user
	return &out, nil
}

func (s *MemoryStore) InsertFile(ctx context.Context, file *metadata.File) (*metadata.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *file
	stored.ID = primitive.NewObjectID()
	s.filesByID[stored.ID] = &stored
	s.fileOrder = append(s.fileOrder, stored.ID)

	out := stored
	return &out, nil
}

func (s *MemoryStore) FindFile(ctx context.Context, id primitive.ObjectID) (*metadata.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, ok := s.filesByID[id]
	if !ok {
		return nil, metadata.ErrFileNotFound
	}

	out := *file
	return &out, nil
}

func (s *MemoryStore) FindFileOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*metadata.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, ok := s.filesByID[id]
	if !ok || file.OwnerID != ownerID {
		// Foreign ownership reports the same error as a missing id.
		return nil, metadata.ErrFileNotFound
	}

	out := *file
	return &out, nil
}

func (s *MemoryStore) ListFiles(ctx context.Context, ownerID primitive.ObjectID, parent metadata.ParentRef, page int) ([]metadata.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]metadata.File, 0)
	for _, id := range s.fileOrder {
		file := s.filesByID[id]
		if file.OwnerID != ownerID {
			continue
		}
		if file.Parent != parent {
			continue
		}
		matched = append(matched, *file)
	}

	start := page * metadata.PageSize
	if page < 0 || start >= len(matched) {
		return []metadata.File{}, nil
	}

	end := start + metadata.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], nil
}

func (s *MemoryStore) SetFileVisibility(ctx context.Context, id, ownerID primitive.ObjectID, public bool) (*metadata.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.filesByID[id]
	if !ok || file.OwnerID != ownerID {
		return nil, metadata.ErrFileNotFound
	}

	file.IsPublic = public

	out := *file
	return &out, nil
}

func (s *MemoryStore) CountUsers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.usersByID)), nil
}

func (s *MemoryStore) CountFiles(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.filesByID)), nil
}

func (s *MemoryStore) Healthcheck(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return ctx.Err()
}
