// Package kv provides a flat string-keyed key-value store with prefix
// iteration and atomic batch writes.
//
// The package includes a BadgerDB-backed implementation for durable
// storage and an in-memory implementation for tests. Both iterate in
// lexicographic key order, which callers rely on for prefix scans.
package kv

import (
	"context"
	"errors"
	"iter"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Entry is a key-value pair returned by List and consumed by BatchSet.
type Entry struct {
	Key   string
	Value []byte
}

// Store is the key-value store contract.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. No error if the key does not exist.
	Delete(ctx context.Context, key string) error

	// List iterates over all entries whose key starts with prefix, in
	// lexicographic key order. An empty prefix lists the whole store.
	List(ctx context.Context, prefix string) iter.Seq2[Entry, error]

	// BatchSet atomically stores multiple entries.
	BatchSet(ctx context.Context, entries []Entry) error

	// BatchDelete atomically removes multiple keys.
	BatchDelete(ctx context.Context, keys []string) error

	// Close releases resources held by the store.
	Close() error
}
