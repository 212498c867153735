package embed_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/seekfs/seekfs/pkg/embed"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestHashDeterministic(t *testing.T) {
	h := embed.NewHash(128)
	ctx := context.Background()

	a, err := h.Embed(ctx, "hello world")
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.Embed(ctx, "hello world")
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding differs at dim %d across runs", i)
		}
	}
	if len(a) != 128 {
		t.Errorf("len = %d, want 128", len(a))
	}
	if h.Dimension() != 128 {
		t.Errorf("Dimension = %d, want 128", h.Dimension())
	}
}

func TestHashLexicalOverlapRanksCloser(t *testing.T) {
	h := embed.NewHash(256)
	ctx := context.Background()

	query, _ := h.Embed(ctx, "hello")
	hello, _ := h.Embed(ctx, "hello world")
	goodbye, _ := h.Embed(ctx, "goodbye world")

	if cosine(query, hello) <= cosine(query, goodbye) {
		t.Errorf("expected %q closer to query than %q", "hello world", "goodbye world")
	}
}

func TestHashNormalized(t *testing.T) {
	h := embed.NewHash(64)
	vec, err := h.Embed(context.Background(), "some text with several tokens")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1) > 1e-5 {
		t.Errorf("squared norm = %f, want 1", sum)
	}
}

func TestHashEmptyInput(t *testing.T) {
	h := embed.NewHash(64)
	ctx := context.Background()

	if _, err := h.Embed(ctx, ""); !errors.Is(err, embed.ErrEmptyInput) {
		t.Errorf("Embed(\"\"): err = %v, want ErrEmptyInput", err)
	}
	if _, err := h.EmbedBatch(ctx, nil); !errors.Is(err, embed.ErrEmptyInput) {
		t.Errorf("EmbedBatch(nil): err = %v, want ErrEmptyInput", err)
	}
}

func TestHashBatchMatchesSingle(t *testing.T) {
	h := embed.NewHash(64)
	ctx := context.Background()

	texts := []string{"one two", "three", "four five six"}
	batch, err := h.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatal(err)
	}
	for i, text := range texts {
		single, _ := h.Embed(ctx, text)
		for d := range single {
			if batch[i][d] != single[d] {
				t.Fatalf("batch[%d] differs from single embedding at dim %d", i, d)
			}
		}
	}
}
