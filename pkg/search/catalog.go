package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ListIndexedFiles returns the distinct file paths present in the index,
// sorted. The set is derived by scanning record ids, so it is exact as
// of the latest completed index or delete operation.
func (s *Service) ListIndexedFiles(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	for e, err := range s.store.List(ctx, recPrefix) {
		if err != nil {
			return nil, fmt.Errorf("search: scan index: %w", err)
		}
		filePath, _, err := ParseRecordID(strings.TrimPrefix(e.Key, recPrefix))
		if err != nil {
			return nil, err
		}
		seen[filePath] = true
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// DeleteFolder removes every record whose id starts with folder and
// returns the number of records deleted (0 if none matched).
//
// The vector store offers no prefix filter on metadata, so this is a
// two-phase full scan: collect matching ids, then bulk-delete exactly
// that set. O(corpus size) per call; the scalability ceiling of this
// design.
func (s *Service) DeleteFolder(ctx context.Context, folder string) (int, error) {
	folder = strings.ReplaceAll(folder, "\\", "/")

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var keys []string
	var ids []string
	for e, err := range s.store.List(ctx, recPrefix) {
		if err != nil {
			return 0, fmt.Errorf("search: scan index: %w", err)
		}
		id := strings.TrimPrefix(e.Key, recPrefix)
		if strings.HasPrefix(id, folder) {
			keys = append(keys, e.Key)
			ids = append(ids, id)
		}
	}
	if len(keys) == 0 {
		return 0, nil
	}

	if err := s.store.BatchDelete(ctx, keys); err != nil {
		return 0, fmt.Errorf("search: delete folder %s: %w", folder, err)
	}
	for _, id := range ids {
		if err := s.vec.Delete(id); err != nil {
			return 0, fmt.Errorf("search: delete vector %s: %w", id, err)
		}
	}
	return len(ids), nil
}

// Reset wipes the entire index: every record and every vector.
// Unconditional and irreversible.
func (s *Service) Reset(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var keys []string
	for e, err := range s.store.List(ctx, recPrefix) {
		if err != nil {
			return fmt.Errorf("search: scan index: %w", err)
		}
		keys = append(keys, e.Key)
	}
	if len(keys) > 0 {
		if err := s.store.BatchDelete(ctx, keys); err != nil {
			return fmt.Errorf("search: reset records: %w", err)
		}
	}
	if err := s.vec.Clear(); err != nil {
		return fmt.Errorf("search: reset vectors: %w", err)
	}
	return s.vec.Flush()
}
