package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core"
	"github.com/Ronniet1977/CamperShowBackup/pkg/log"
	"github.com/Ronniet1977/CamperShowBackup/pkg/options"
)

// MinIO implements core.Storage against any S3-compatible endpoint. One
// bucket holds the whole remote layout: the canonical current-show object,
// timestamped assignment exports, the driver roster and the show archive.
type MinIO struct {
	client     *minio.Client
	bucketName string
}

var _ core.Storage = (*MinIO)(nil)

// NewMinIO creates an S3-backed storage adapter.
func NewMinIO(opts *options.S3Options) (*MinIO, error) {
	minioOpts := &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	}

	client, err := minio.New(opts.Endpoint, minioOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIO{
		client:     client,
		bucketName: opts.BucketName,
	}, nil
}

// CheckBucket verifies the snapshot bucket exists and creates it when
// missing. This is the S3 analog of "ensure the parent folder exists".
func (p *MinIO) CheckBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		log.Info("Bucket does not exist, creating...", "bucket", p.bucketName)
		if err := p.client.MakeBucket(ctx, p.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Upload writes an object, replacing any previous content at the key.
func (p *MinIO) Upload(ctx context.Context, key string, data []byte) error {
	_, err := p.client.PutObject(ctx, p.bucketName, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType(key)})
	if err != nil {
		return fmt.Errorf("failed to upload %q: %w", key, err)
	}
	return nil
}

// Download reads the object at key.
func (p *MinIO) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := p.client.GetObject(ctx, p.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %q: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return data, nil
}

// Move relocates an object (server-side copy, then delete the source).
func (p *MinIO) Move(ctx context.Context, fromKey, toKey string) error {
	src := minio.CopySrcOptions{Bucket: p.bucketName, Object: fromKey}
	dst := minio.CopyDestOptions{Bucket: p.bucketName, Object: toKey}

	if _, err := p.client.CopyObject(ctx, dst, src); err != nil {
		return fmt.Errorf("failed to copy %q to %q: %w", fromKey, toKey, err)
	}
	if err := p.client.RemoveObject(ctx, p.bucketName, fromKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %q after copy: %w", fromKey, err)
	}
	return nil
}

func contentType(key string) string {
	switch {
	case len(key) > 4 && key[len(key)-4:] == ".csv":
		return "text/csv"
	case len(key) > 5 && key[len(key)-5:] == ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
