package search

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/seekfs/seekfs/pkg/kv"
)

// Index chunks content, embeds each chunk, and stores the records under
// ids derived from (filePath, chunk number). The file's previous records
// are removed first, so re-indexing with fewer chunks leaves no orphaned
// higher-numbered chunks behind. Returns the number of chunks indexed;
// empty content just removes the file from the index.
func (s *Service) Index(ctx context.Context, filePath, content string) (int, error) {
	filePath = normalizePath(filePath)
	if filePath == "" {
		return 0, fmt.Errorf("search: empty file path")
	}

	chunks := splitChunks(content, s.chunkSize)

	// Embed before taking the write lock; the network round trip must
	// not serialize unrelated writers.
	var vectors [][]float32
	if len(chunks) > 0 {
		var err error
		vectors, err = s.embedder.EmbedBatch(ctx, chunks)
		if err != nil {
			return 0, fmt.Errorf("search: embed %s: %w", filePath, err)
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.removeFileLocked(ctx, filePath); err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	ids := make([]string, len(chunks))
	entries := make([]kv.Entry, len(chunks))
	for i, text := range chunks {
		ids[i] = RecordID(filePath, i)
		value, err := msgpack.Marshal(Record{FilePath: filePath, Chunk: i, Text: text})
		if err != nil {
			return 0, fmt.Errorf("search: encode record %s: %w", ids[i], err)
		}
		entries[i] = kv.Entry{Key: recKey(ids[i]), Value: value}
	}

	if err := s.store.BatchSet(ctx, entries); err != nil {
		return 0, fmt.Errorf("search: store records for %s: %w", filePath, err)
	}
	if err := s.vec.BatchInsert(ids, vectors); err != nil {
		return 0, fmt.Errorf("search: insert vectors for %s: %w", filePath, err)
	}
	return len(chunks), nil
}

// removeFileLocked deletes every record of filePath from both stores.
// Caller holds writeMu.
func (s *Service) removeFileLocked(ctx context.Context, filePath string) error {
	var keys []string
	var ids []string
	for e, err := range s.store.List(ctx, fileKeyPrefix(filePath)) {
		if err != nil {
			return fmt.Errorf("search: scan %s: %w", filePath, err)
		}
		keys = append(keys, e.Key)
		ids = append(ids, strings.TrimPrefix(e.Key, recPrefix))
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.store.BatchDelete(ctx, keys); err != nil {
		return fmt.Errorf("search: delete records for %s: %w", filePath, err)
	}
	for _, id := range ids {
		if err := s.vec.Delete(id); err != nil {
			return fmt.Errorf("search: delete vector %s: %w", id, err)
		}
	}
	return nil
}

// normalizePath canonicalizes a file path for use as a record key:
// forward slashes, no leading "./", cleaned.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	if p == "." || p == "/" {
		return ""
	}
	return strings.TrimPrefix(p, "./")
}
