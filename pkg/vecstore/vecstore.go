// Package vecstore provides nearest-neighbor search over dense float32
// vectors.
//
// The [Index] interface is the contract the indexing and query layers
// program against. [Flat] is a brute-force cosine implementation with
// optional snapshot persistence through a [blob.Store]; for a corpus of
// personal-file scale it outperforms the bookkeeping cost of an
// approximate structure, and it can be swapped for a client talking to a
// dedicated vector database without touching callers.
package vecstore

import "math"

// Index is the contract for vector storage and nearest-neighbor search.
//
// Implementations must be safe for concurrent use.
type Index interface {
	// Insert adds or updates a vector under id.
	Insert(id string, vector []float32) error

	// BatchInsert adds or updates multiple vectors. ids and vectors
	// must have the same length.
	BatchInsert(ids []string, vectors [][]float32) error

	// Search returns the topK nearest vectors to query, ordered by
	// ascending distance with ties broken by id for stability.
	Search(query []float32, topK int) ([]Match, error)

	// Delete removes a vector by id. No error if id does not exist.
	Delete(id string) error

	// Clear removes every vector.
	Clear() error

	// Len returns the number of stored vectors.
	Len() int

	// Flush persists pending state to durable storage, if the
	// implementation has any.
	Flush() error

	// Close flushes and releases resources.
	Close() error
}

// Match is a single result of a similarity search.
type Match struct {
	// ID identifies the matched vector.
	ID string

	// Distance is the cosine distance to the query; lower is more
	// similar.
	Distance float32
}

// CosineDistance returns 1 - cosine similarity, in [0, 2]. Mismatched
// dimensions and zero-norm vectors yield the maximum distance.
func CosineDistance(a, b []float32) float32 {
	if len(a) != len(b) {
		return 2
	}
	var dot, na, nb float64
	for i := range a {
		ai, bi := float64(a[i]), float64(b[i])
		dot += ai * bi
		na += ai * ai
		nb += bi * bi
	}
	if na == 0 || nb == 0 {
		return 2
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return float32(1 - sim)
}
