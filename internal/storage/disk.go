package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// Disk stores images as files under a local directory.
type Disk struct {
	dir string
}

// NewDisk creates the directory if needed and returns a disk-backed store.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &Disk{dir: dir}, nil
}

func (d *Disk) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	name = sanitize(name)
	f, err := os.Create(filepath.Join(d.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return path.Join("images", name), nil
}

func (d *Disk) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.dir, sanitize(p)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open image file: %w", err)
	}
	return f, nil
}

func (d *Disk) Remove(ctx context.Context, p string) error {
	if err := os.Remove(filepath.Join(d.dir, sanitize(p))); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}

// sanitize strips any directory component so stored paths and client input
// cannot escape the image directory.
func sanitize(p string) string {
	return filepath.Base(filepath.FromSlash(p))
}
