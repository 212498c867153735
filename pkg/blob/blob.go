// Package blob provides a small byte-oriented blob store abstraction with
// local-directory and S3 backends.
//
// Its job here is persisting vector index snapshots: whole-value reads and
// writes of modestly sized objects, no streaming, no listing. Keys are
// forward-slash separated paths relative to the store root.
package blob

import "context"

// Store reads and writes whole blobs by key.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the blob stored under key. A missing key yields an
	// error wrapping os.ErrNotExist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any existing blob.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the blob under key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a blob is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}
