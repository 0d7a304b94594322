package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore is a filesystem-backed Store. Buckets map to directories under
// the root; object paths map to files within a bucket.
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage root is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &FileStore{root: dir}, nil
}

// Download reads the object at bucket/path.
func (s *FileStore) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.objectPath(bucket, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading object %s/%s: %w", bucket, path, err)
	}
	return data, nil
}

// Upload writes the object at bucket/path, creating parent directories.
func (s *FileStore) Upload(ctx context.Context, bucket, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.objectPath(bucket, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("writing object %s/%s: %w", bucket, path, err)
	}
	return nil
}

func (s *FileStore) objectPath(bucket, path string) (string, error) {
	if bucket == "" || path == "" {
		return "", fmt.Errorf("bucket and path are required")
	}
	full := filepath.Join(s.root, bucket, filepath.FromSlash(path))
	// Object paths come from catalog records; refuse anything that would
	// escape the root.
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("object path %q escapes storage root", path)
	}
	return full, nil
}
