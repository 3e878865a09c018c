// Package blobstore provides the key-value blob stores the survey session is
// persisted into.
package blobstore

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by Get when no blob is stored under the key.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore stores opaque blobs under string keys.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
