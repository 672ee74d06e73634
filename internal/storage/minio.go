package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
)

// Minio stores images as objects in a MinIO (or S3-compatible) bucket.
type Minio struct {
	client *minio.Client
	bucket string
}

// NewMinio ensures the bucket exists and returns an object-storage backed store.
func NewMinio(ctx context.Context, client *minio.Client, bucket string) (*Minio, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &Minio{client: client, bucket: bucket}, nil
}

func (m *Minio) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	name = path.Base(name)
	if _, err := m.client.PutObject(ctx, m.bucket, name, r, -1, minio.PutObjectOptions{}); err != nil {
		return "", fmt.Errorf("upload image object: %w", err)
	}
	return path.Join("images", name), nil
}

func (m *Minio) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	name := path.Base(p)
	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get image object: %w", err)
	}
	// GetObject is lazy; verify the object is actually there.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat image object: %w", err)
	}
	return obj, nil
}

func (m *Minio) Remove(ctx context.Context, p string) error {
	name := path.Base(p)
	if _, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ErrNotFound
		}
		return fmt.Errorf("stat image object: %w", err)
	}
	if err := m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove image object: %w", err)
	}
	return nil
}
