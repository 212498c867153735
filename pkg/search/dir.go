package search

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxIndexFileSize caps how much of the tree a single file may occupy.
// Larger files are skipped, not truncated.
const maxIndexFileSize = 1 << 20 // 1 MiB

// textExtensions is the allow-list of file extensions IndexDirectory
// will read. Everything else is skipped.
var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".markdown": true, ".rst": true,
	".go": true, ".py": true, ".js": true, ".ts": true, ".rb": true,
	".c": true, ".h": true, ".java": true, ".rs": true, ".sh": true,
	".json": true, ".yaml": true, ".yml": true, ".toml": true,
	".ini": true, ".cfg": true, ".csv": true, ".log": true,
	".html": true, ".css": true, ".xml": true,
}

// IndexDirectory walks dir (relative to the service root) and indexes
// every allow-listed text file, returning the root-relative paths that
// were indexed.
//
// A directory resolving outside the root fails with ErrUnsafeDir before
// anything is read. Per-file failures (unreadable, binary, embedding
// error) are logged and skipped; only structural problems abort the
// walk. Hidden directories and files larger than 1 MiB are skipped.
func (s *Service) IndexDirectory(ctx context.Context, dir string) ([]string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(dir))
	abs, err := filepath.Abs(full)
	if err != nil {
		return nil, fmt.Errorf("search: resolve %q: %w", dir, err)
	}
	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return nil, fmt.Errorf("search: %q: %w", dir, ErrUnsafeDir)
	}

	var indexed []string
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != abs {
				return filepath.SkipDir
			}
			return nil
		}
		if !textExtensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		relPath := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			slog.Warn("index: stat failed, skipping", "path", relPath, "error", err)
			return nil
		}
		if info.Size() > maxIndexFileSize {
			slog.Debug("index: file too large, skipping", "path", relPath, "size", info.Size())
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			slog.Warn("index: read failed, skipping", "path", relPath, "error", err)
			return nil
		}
		if !utf8.Valid(content) {
			slog.Debug("index: not valid UTF-8, skipping", "path", relPath)
			return nil
		}

		if _, err := s.Index(ctx, relPath, string(content)); err != nil {
			slog.Warn("index: indexing failed, skipping", "path", relPath, "error", err)
			return nil
		}
		indexed = append(indexed, relPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search: walk %q: %w", dir, err)
	}
	return indexed, nil
}
