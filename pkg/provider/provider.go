// Package provider defines the storage provider contract for directory
// listing over heterogeneous backends, together with the error taxonomy
// shared by all implementations.
//
// A Provider lists the contents of a directory on some backend (local
// filesystem, remote NAS, ...) and declares its capability variant via
// [Provider.Kind]. Callers branch on the declared Kind rather than on the
// concrete type, so new backends can be added without touching call sites.
package provider

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors. Implementations wrap these so callers can classify
// failures with errors.Is without depending on a concrete backend.
var (
	// ErrNotFound means the requested path does not exist or is not a
	// directory.
	ErrNotFound = errors.New("provider: not found")

	// ErrPermissionDenied means the path resolves outside the provider's
	// sandbox, or the backend rejected the request.
	ErrPermissionDenied = errors.New("provider: permission denied")

	// ErrUnauthenticated means the operation requires a session that has
	// not been established, or the backend rejected the credentials.
	ErrUnauthenticated = errors.New("provider: not authenticated")

	// ErrConnection means the backend could not be reached at the
	// transport level (DNS, refused, TLS). Distinct from a rejection by
	// a reachable backend.
	ErrConnection = errors.New("provider: connection failed")
)

// Kind is the declared capability variant of a Provider.
type Kind int

const (
	// KindLocal is a sandboxed local-filesystem provider.
	KindLocal Kind = iota

	// KindRemote is a session-authenticated remote provider.
	KindRemote
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// FileEntry describes one file or directory returned by a listing call.
// Entries are produced fresh on every call and never persisted.
type FileEntry struct {
	// Name is the base name of the entry.
	Name string `json:"name"`

	// IsDir reports whether the entry is a directory.
	IsDir bool `json:"is_directory"`

	// Path is the entry path relative to the provider root,
	// forward-slash separated.
	Path string `json:"path"`

	// Size is the entry size in bytes. Nil for directories.
	Size *int64 `json:"size,omitempty"`

	// ModTime is the last modification time. Providers whose backend
	// carries no modification time (e.g. NAS shares) report the Unix
	// epoch.
	ModTime time.Time `json:"last_modified"`
}

// Provider lists directories on some storage backend.
//
// Implementations must be safe for concurrent ListFiles calls.
type Provider interface {
	// Kind reports the declared capability variant.
	Kind() Kind

	// ListFiles returns the entries of the directory at path.
	// Fails with ErrNotFound if path does not exist or is not a
	// directory, and with ErrPermissionDenied if resolution would
	// escape the provider's sandbox.
	ListFiles(ctx context.Context, path string) ([]FileEntry, error)

	// Close releases resources held by the provider. Idempotent.
	Close() error
}

// ShareLister is implemented by remote providers whose root namespace is a
// set of shares rather than a directory.
type ShareLister interface {
	// ListShares returns the backend's top-level shares as directory
	// entries.
	ListShares(ctx context.Context) ([]FileEntry, error)
}
