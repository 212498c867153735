package vecstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/seekfs/seekfs/pkg/blob"
)

// Flat is a brute-force cosine Index. When configured with a snapshot
// target, Flush serializes the whole vector set to the blob store and
// Open restores it, giving crash-safe persistence between runs.
//
// Safe for concurrent use.
type Flat struct {
	mu      sync.RWMutex
	vectors map[string][]float32
	dirty   bool

	// snapshot target, nil for memory-only operation
	store blob.Store
	key   string
}

var _ Index = (*Flat)(nil)

// NewFlat creates an empty memory-only index.
func NewFlat() *Flat {
	return &Flat{vectors: make(map[string][]float32)}
}

// Open creates a Flat index persisted as a snapshot under key in store,
// loading the existing snapshot if one is present.
func Open(ctx context.Context, store blob.Store, key string) (*Flat, error) {
	f := &Flat{vectors: make(map[string][]float32), store: store, key: key}

	data, err := store.Get(ctx, key)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vecstore: load snapshot: %w", err)
	}
	if err := msgpack.Unmarshal(data, &f.vectors); err != nil {
		return nil, fmt.Errorf("vecstore: decode snapshot %s: %w", key, err)
	}
	return f, nil
}

func (f *Flat) Insert(id string, vector []float32) error {
	cp := make([]float32, len(vector))
	copy(cp, vector)
	f.mu.Lock()
	f.vectors[id] = cp
	f.dirty = true
	f.mu.Unlock()
	return nil
}

func (f *Flat) BatchInsert(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("vecstore: BatchInsert length mismatch: %d ids, %d vectors", len(ids), len(vectors))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, id := range ids {
		cp := make([]float32, len(vectors[i]))
		copy(cp, vectors[i])
		f.vectors[id] = cp
	}
	f.dirty = true
	return nil
}

func (f *Flat) Search(query []float32, topK int) ([]Match, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.vectors) == 0 || topK <= 0 {
		return nil, nil
	}

	matches := make([]Match, 0, len(f.vectors))
	for id, vec := range f.vectors {
		matches = append(matches, Match{ID: id, Distance: CosineDistance(query, vec)})
	}

	// Map iteration order is random; the id tie-break keeps results
	// deterministic.
	slices.SortFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (f *Flat) Delete(id string) error {
	f.mu.Lock()
	if _, ok := f.vectors[id]; ok {
		delete(f.vectors, id)
		f.dirty = true
	}
	f.mu.Unlock()
	return nil
}

func (f *Flat) Clear() error {
	f.mu.Lock()
	f.vectors = make(map[string][]float32)
	f.dirty = true
	f.mu.Unlock()
	return nil
}

func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.vectors)
}

// Flush writes the snapshot if one is configured and the index changed
// since the last flush.
func (f *Flat) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.store == nil || !f.dirty {
		return nil
	}
	data, err := msgpack.Marshal(f.vectors)
	if err != nil {
		return fmt.Errorf("vecstore: encode snapshot: %w", err)
	}
	if err := f.store.Put(context.Background(), f.key, data); err != nil {
		return fmt.Errorf("vecstore: write snapshot: %w", err)
	}
	f.dirty = false
	return nil
}

// Close flushes the snapshot.
func (f *Flat) Close() error {
	return f.Flush()
}
