// Package storage persists uploaded images and releases them when the
// owning post goes away. Posts reference images by the relative path
// returned from Save, e.g. "images/1693372800000-cat.png".
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when the referenced image does not exist.
var ErrNotFound = errors.New("image not found")

// ImageStore abstracts where image bytes live. Implementations accept the
// stored path form ("images/<name>") as well as a bare object name.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}
