// Package files implements the file hierarchy service: validation of
// upload invariants, coordination between metadata and blob stores,
// listing, and visibility toggles.
package files

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"filevault/internal/logger"
	"filevault/pkg/store/blob"
	"filevault/pkg/store/metadata"
)

// Hierarchy validates and persists file records. It is the only
// component that writes to both the metadata store and the blob store.
type Hierarchy struct {
	meta  metadata.Store
	blobs blob.Store
}

// NewHierarchy wires the hierarchy service to its stores.
func NewHierarchy(meta metadata.Store, blobs blob.Store) *Hierarchy {
	return &Hierarchy{meta: meta, blobs: blobs}
}

// CreateRequest describes one upload. Data holds the decoded payload
// and is ignored for folders.
type CreateRequest struct {
	Name     string
	Type     metadata.FileType
	Parent   metadata.ParentRef
	IsPublic bool
	Data     []byte
}

// Create validates the request and persists the record.
//
// Validation order, all before any side effect: name present, type
// known, data present unless folder, parent exists and is a folder.
// Folders are inserted directly. For files and images the blob is
// written first and the metadata record references its location; when
// the insert then fails, the fresh blob is removed best-effort so the
// failure does not strand bytes on disk.
func (h *Hierarchy) Create(ctx context.Context, ownerID primitive.ObjectID, req CreateRequest) (*metadata.File, error) {
	if req.Name == "" {
		return nil, metadata.ErrMissingName
	}
	if !req.Type.Valid() {
		return nil, metadata.ErrMissingType
	}
	if req.Type.HasContent() && len(req.Data) == 0 {
		return nil, metadata.ErrMissingData
	}

	if !req.Parent.IsRoot() {
		parent, err := h.meta.FindFile(ctx, req.Parent.ID())
		if metadata.IsNotFound(err) {
			return nil, metadata.ErrParentNotFound
		}
		if err != nil {
			return nil, err
		}
		if parent.Type != metadata.FileTypeFolder {
			return nil, metadata.ErrParentNotFolder
		}
	}

	record := &metadata.File{
		OwnerID:  ownerID,
		Name:     req.Name,
		Type:     req.Type,
		IsPublic: req.IsPublic,
		Parent:   req.Parent,
	}

	if !req.Type.HasContent() {
		return h.meta.InsertFile(ctx, record)
	}

	location, err := h.blobs.Store(ctx, req.Data)
	if err != nil {
		return nil, err
	}
	record.Location = location

	created, err := h.meta.InsertFile(ctx, record)
	if err != nil {
		// The blob write preceded the failed insert; clean it up so it
		// does not become an orphan. A failed cleanup only costs the
		// orphan we would otherwise have kept.
		if rmErr := h.blobs.Remove(ctx, location); rmErr != nil {
			logger.Warn("Failed to remove orphaned blob %s: %v", location, rmErr)
		}
		return nil, err
	}

	return created, nil
}

// Get returns the record with the given id if it is owned by
// requesterID. Foreign and missing records are both ErrFileNotFound.
func (h *Hierarchy) Get(ctx context.Context, requesterID, fileID primitive.ObjectID) (*metadata.File, error) {
	return h.meta.FindFileOwned(ctx, fileID, requesterID)
}

// Lookup returns the record regardless of owner. Callers must apply
// their own visibility policy; only the content-retrieval path uses
// this, followed by an AccessGate check.
func (h *Hierarchy) Lookup(ctx context.Context, fileID primitive.ObjectID) (*metadata.File, error) {
	return h.meta.FindFile(ctx, fileID)
}

// List returns one page of the requester's files under parent.
func (h *Hierarchy) List(ctx context.Context, requesterID primitive.ObjectID, parent metadata.ParentRef, page int) ([]metadata.File, error) {
	return h.meta.ListFiles(ctx, requesterID, parent, page)
}

// SetVisibility flips isPublic on an owned record. Idempotent.
func (h *Hierarchy) SetVisibility(ctx context.Context, requesterID, fileID primitive.ObjectID, public bool) (*metadata.File, error) {
	return h.meta.SetFileVisibility(ctx, fileID, requesterID, public)
}

// OpenContent opens the payload of an already-authorized record.
// Folders have no content; absent blobs (including never-generated
// size variants) report ErrFileNotFound.
func (h *Hierarchy) OpenContent(ctx context.Context, file *metadata.File, variant string) (io.ReadCloser, error) {
	if file.Type == metadata.FileTypeFolder {
		return nil, metadata.ErrFolderHasNoContent
	}

	rc, err := h.blobs.Retrieve(ctx, file.Location, variant)
	if err == blob.ErrNotFound {
		return nil, metadata.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}

	return rc, nil
}
