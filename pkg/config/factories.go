package config

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"filevault/pkg/store/blob"
	blobfs "filevault/pkg/store/blob/fs"
	blobs3 "filevault/pkg/store/blob/s3"
	"filevault/pkg/store/metadata"
	metamemory "filevault/pkg/store/metadata/memory"
	metamongo "filevault/pkg/store/metadata/mongo"
	"filevault/pkg/store/session"
	sessionbadger "filevault/pkg/store/session/badger"
	sessionmemory "filevault/pkg/store/session/memory"
)

// CreateMetadataStore builds the metadata store selected by cfg.Type,
// decoding the matching option map into the backend's config type.
func CreateMetadataStore(ctx context.Context, cfg *MetadataConfig) (metadata.Store, error) {
	switch cfg.Type {
	case "mongo":
		var storeCfg metamongo.Config
		if err := mapstructure.Decode(cfg.Mongo, &storeCfg); err != nil {
			return nil, fmt.Errorf("failed to decode mongo metadata store config: %w", err)
		}
		return metamongo.NewMongoStore(ctx, storeCfg)
	case "memory":
		return metamemory.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown metadata store type: %q", cfg.Type)
	}
}

// CreateSessionStore builds the session store selected by cfg.Type.
func CreateSessionStore(ctx context.Context, cfg *SessionsConfig) (session.Store, error) {
	switch cfg.Type {
	case "badger":
		var storeCfg sessionbadger.Config
		if err := mapstructure.Decode(cfg.Badger, &storeCfg); err != nil {
			return nil, fmt.Errorf("failed to decode badger session store config: %w", err)
		}
		return sessionbadger.NewBadgerSessionStore(ctx, storeCfg, cfg.TTL)
	case "memory":
		return sessionmemory.NewMemorySessionStore(cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session store type: %q", cfg.Type)
	}
}

// CreateBlobStore builds the blob store selected by cfg.Type.
func CreateBlobStore(ctx context.Context, cfg *BlobConfig) (blob.Store, error) {
	switch cfg.Type {
	case "filesystem":
		var storeCfg blobfs.Config
		if err := mapstructure.Decode(cfg.Filesystem, &storeCfg); err != nil {
			return nil, fmt.Errorf("failed to decode filesystem blob store config: %w", err)
		}
		return blobfs.NewFSBlobStore(ctx, storeCfg)
	case "s3":
		var storeCfg blobs3.Config
		if err := mapstructure.Decode(cfg.S3, &storeCfg); err != nil {
			return nil, fmt.Errorf("failed to decode s3 blob store config: %w", err)
		}
		return blobs3.NewS3BlobStore(ctx, storeCfg)
	default:
		return nil, fmt.Errorf("unknown blob store type: %q", cfg.Type)
	}
}
