// Package search turns file content into a searchable, deduplicated,
// incrementally maintained vector index.
//
// A [Service] combines three capabilities:
//
//   - indexing: file content is split into bounded, deterministic chunks,
//     embedded, and upserted under ids derived from (path, chunk number)
//   - querying: nearest-neighbor candidates are over-fetched and then
//     filtered to one result per distinct file
//   - cataloging: enumerating indexed files, deleting by path prefix,
//     and resetting the whole corpus
//
// Chunk text and metadata live in a [kv.Store]; vectors live in a
// [vecstore.Index]. The two are kept in step by the Service, which
// serializes all write-class operations behind one mutex. Reads
// (Search, ListIndexedFiles) run concurrently.
package search

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/seekfs/seekfs/pkg/embed"
	"github.com/seekfs/seekfs/pkg/kv"
	"github.com/seekfs/seekfs/pkg/vecstore"
)

// Sentinel errors.
var (
	// ErrEmptyQuery is returned by Search for an empty query string.
	ErrEmptyQuery = errors.New("search: empty query")

	// ErrUnsafeDir is returned by IndexDirectory when the directory
	// resolves outside the indexing root.
	ErrUnsafeDir = errors.New("search: directory outside indexing root")
)

const (
	// DefaultChunkSize is the maximum chunk length in runes.
	DefaultChunkSize = 1000

	// DefaultResults is the result count when the caller passes n <= 0.
	DefaultResults = 5

	// maxCandidates caps the over-fetch regardless of requested size.
	maxCandidates = 50
)

// Config assembles a Service.
type Config struct {
	// Store holds chunk text and metadata. Required.
	Store kv.Store

	// Vec holds chunk vectors. Required.
	Vec vecstore.Index

	// Embedder converts text to vectors. Required.
	Embedder embed.Embedder

	// Root is the directory IndexDirectory is sandboxed to.
	// Defaults to the current working directory.
	Root string

	// ChunkSize is the maximum chunk length in runes.
	// Defaults to DefaultChunkSize.
	ChunkSize int

	// SnippetLimit truncates result snippets to this many runes.
	// Zero means no truncation.
	SnippetLimit int
}

// Service is the semantic indexing and query engine.
type Service struct {
	store        kv.Store
	vec          vecstore.Index
	embedder     embed.Embedder
	root         string
	chunkSize    int
	snippetLimit int

	// writeMu serializes Index, DeleteFolder and Reset so a deletion's
	// id scan cannot interleave with a concurrent re-index of the same
	// paths.
	writeMu sync.Mutex
}

// New creates a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil || cfg.Vec == nil || cfg.Embedder == nil {
		return nil, errors.New("search: Store, Vec and Embedder are required")
	}
	root := cfg.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("search: resolve root: %w", err)
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Service{
		store:        cfg.Store,
		vec:          cfg.Vec,
		embedder:     cfg.Embedder,
		root:         absRoot,
		chunkSize:    chunkSize,
		snippetLimit: cfg.SnippetLimit,
	}, nil
}

// Flush persists the vector index snapshot. Called on orderly shutdown.
func (s *Service) Flush() error {
	return s.vec.Flush()
}
