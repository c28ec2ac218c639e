package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Download when the named object does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectStore is the capability surface the backup and restore engines need
// from a remote content store.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// List returns all object keys under prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}
