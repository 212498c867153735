package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const hashDefaultDim = 256

// Hash is a deterministic feature-hashing embedder: each lowercase token
// of the input increments one dimension chosen by its FNV-1a hash, and
// the result is L2-normalized. Texts sharing tokens land close together
// under cosine distance.
//
// It captures lexical overlap, not meaning. Its value is being fully
// offline and stable across runs, which makes it the default for
// deployments without an embedding API key and the workhorse of tests.
type Hash struct {
	dim int
}

var _ Embedder = (*Hash)(nil)

// NewHash creates a feature-hashing embedder. dim <= 0 selects the
// default of 256 dimensions.
func NewHash(dim int) *Hash {
	if dim <= 0 {
		dim = hashDefaultDim
	}
	return &Hash{dim: dim}
}

// Embed returns the feature-hash vector for text.
func (h *Hash) Embed(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}
	vec := make([]float32, h.dim)
	for _, tok := range tokenize(text) {
		f := fnv.New32a()
		f.Write([]byte(tok))
		vec[int(f.Sum32()%uint32(h.dim))]++
	}
	normalize(vec)
	return vec, nil
}

// EmbedBatch embeds each text independently.
func (h *Hash) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := h.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}

// Dimension returns the vector dimensionality.
func (h *Hash) Dimension() int { return h.dim }

// tokenize splits text into lowercase runs of letters and digits.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// normalize scales vec to unit length in place. A zero vector is left
// unchanged.
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) * inv)
	}
}
