// Package s3 implements blob storage on Amazon S3 or any S3-compatible
// service (MinIO, Localstack, Cubbit DS3).
//
// The blob location is the object key: an optional key prefix followed
// by a fresh uuid. Size variants follow the shared "<key>_<variant>"
// convention.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"filevault/pkg/store/blob"
)

// S3BlobStore implements blob.Store on an S3 bucket.
//
// Thread safety: the S3 client is safe for concurrent use, and every
// write targets a fresh key.
type S3BlobStore struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// Config contains the settings for the S3 blob store.
//
// Endpoint and the static credential pair are optional; when empty the
// default AWS credential chain and endpoints are used.
type Config struct {
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	KeyPrefix       string `mapstructure:"key_prefix"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// NewS3BlobStore builds the AWS client from cfg and returns the store.
func NewS3BlobStore(ctx context.Context, cfg Config) (*S3BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 blob store: bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 blob store: region is required")
	}

	configOptions := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			// Custom endpoints (MinIO, Localstack) need path-style
			// addressing since they rarely resolve bucket subdomains.
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3BlobStore{
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

func (s *S3BlobStore) Store(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := s.keyPrefix + uuid.NewString()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to write blob to S3: %w", err)
	}

	return key, nil
}

func (s *S3BlobStore) Retrieve(ctx context.Context, location, variant string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := blob.VariantLocation(location, variant)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, blob.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob from S3: %w", err)
	}

	return out.Body, nil
}

func (s *S3BlobStore) Remove(ctx context.Context, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// DeleteObject on a missing key succeeds, which matches the
	// idempotent contract.
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(location),
	})
	if err != nil {
		return fmt.Errorf("failed to delete blob from S3: %w", err)
	}

	return nil
}
