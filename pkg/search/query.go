package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/seekfs/seekfs/pkg/kv"
	"github.com/seekfs/seekfs/pkg/vecstore"
)

// Result is one search hit: the best-matching chunk of one file.
type Result struct {
	FilePath string  `json:"file_path"`
	Snippet  string  `json:"content_snippet"`
	Distance float32 `json:"distance"`
	Chunk    int     `json:"chunk_number"`
}

// Search returns up to n results for query, at most one per distinct
// file, ordered by ascending distance.
//
// More candidates than requested are fetched first, min(n*10, 50,
// corpus size), so that discarding extra chunks of an already-seen file
// still leaves enough material to fill n distinct files. Without the
// per-file filter a single large document could occupy every slot.
//
// An empty query fails with ErrEmptyQuery; an empty corpus returns an
// empty result list without error.
func (s *Service) Search(ctx context.Context, query string, n int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if n <= 0 {
		n = DefaultResults
	}

	corpus := s.vec.Len()
	if corpus == 0 {
		return []Result{}, nil
	}
	candidates := min(n*10, maxCandidates, corpus)

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}
	matches, err := s.vec.Search(qvec, candidates)
	if err != nil {
		return nil, fmt.Errorf("search: vector search: %w", err)
	}

	// The index already returns ascending distances; re-sort stably so
	// the one-per-file walk below holds for any Index implementation.
	slices.SortStableFunc(matches, func(a, b vecstore.Match) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})

	results := make([]Result, 0, n)
	seen := make(map[string]bool)
	for _, m := range matches {
		if len(results) >= n {
			break
		}
		rec, err := s.loadRecord(ctx, m.ID)
		if errors.Is(err, kv.ErrNotFound) {
			// Vector without record: a concurrent delete won the race.
			continue
		}
		if err != nil {
			return nil, err
		}
		if seen[rec.FilePath] {
			continue
		}
		seen[rec.FilePath] = true
		results = append(results, Result{
			FilePath: rec.FilePath,
			Snippet:  s.snippet(rec.Text),
			Distance: m.Distance,
			Chunk:    rec.Chunk,
		})
	}
	return results, nil
}

func (s *Service) loadRecord(ctx context.Context, id string) (*Record, error) {
	value, err := s.store.Get(ctx, recKey(id))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := msgpack.Unmarshal(value, &rec); err != nil {
		return nil, fmt.Errorf("search: decode record %s: %w", id, err)
	}
	return &rec, nil
}

// snippet truncates chunk text to the configured limit.
func (s *Service) snippet(text string) string {
	if s.snippetLimit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= s.snippetLimit {
		return text
	}
	return string(runes[:s.snippetLimit]) + "..."
}
