package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local implements Provider over a directory on the local filesystem.
// All requested paths are resolved relative to the root; a resolution
// whose absolute form leaves the root fails with ErrPermissionDenied.
type Local struct {
	root string
}

// NewLocal creates a Local provider sandboxed to dir. If dir is empty the
// current working directory is used.
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("provider: resolve root: %w", err)
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute sandbox root.
func (l *Local) Root() string { return l.root }

// Kind reports KindLocal.
func (l *Local) Kind() Kind { return KindLocal }

// resolve maps a requested path to an absolute path under the root.
// Returns ErrPermissionDenied if the result escapes the root.
func (l *Local) resolve(path string) (string, error) {
	full := filepath.Join(l.root, filepath.FromSlash(path))
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("provider: resolve %q: %w", path, err)
	}
	if abs != l.root && !strings.HasPrefix(abs, l.root+string(filepath.Separator)) {
		return "", fmt.Errorf("provider: %q escapes root: %w", path, ErrPermissionDenied)
	}
	return abs, nil
}

// ListFiles returns the entries of the directory at path, with paths
// relative to the root and forward-slash separated.
func (l *Local) ListFiles(_ context.Context, path string) ([]FileEntry, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("provider: %q: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("provider: stat %q: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("provider: %q is not a directory: %w", path, ErrNotFound)
	}

	dirents, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("provider: read %q: %w", path, err)
	}

	entries := make([]FileEntry, 0, len(dirents))
	for _, de := range dirents {
		fi, err := de.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info.
			continue
		}
		rel, err := filepath.Rel(l.root, filepath.Join(full, de.Name()))
		if err != nil {
			continue
		}
		e := FileEntry{
			Name:    de.Name(),
			IsDir:   de.IsDir(),
			Path:    filepath.ToSlash(rel),
			ModTime: fi.ModTime(),
		}
		if !de.IsDir() {
			size := fi.Size()
			e.Size = &size
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close is a no-op; a Local provider holds no resources.
func (l *Local) Close() error { return nil }
