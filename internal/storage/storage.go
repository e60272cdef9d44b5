// Package storage holds uploaded project images behind a small blob
// interface with local-disk and S3 backends.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Open and Remove when no blob has that name.
var ErrNotExist = errors.New("object does not exist")

// Service stores uploaded images by filename. Writes to the same name are
// last-write-wins.
type Service interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, int64, error)
	Remove(ctx context.Context, name string) error
}
