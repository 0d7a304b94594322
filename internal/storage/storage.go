// Package storage provides artifact storage addressed by bucket and
// path.
package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned when no object exists at bucket/path.
var ErrObjectNotFound = errors.New("storage object not found")

// Downloader fetches raw object content.
type Downloader interface {
	Download(ctx context.Context, bucket, path string) ([]byte, error)
}

// Uploader writes raw object content.
type Uploader interface {
	Upload(ctx context.Context, bucket, path string, content []byte) error
}

// Store combines both directions of artifact transfer.
type Store interface {
	Downloader
	Uploader
}
