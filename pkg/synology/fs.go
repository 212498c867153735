package synology

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/seekfs/seekfs/pkg/provider"
)

// shareData is one entry of a SYNO.FileStation.List list_share response.
type shareData struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// fileData is one entry of a SYNO.FileStation.List list response with the
// "size" and "time" additionals requested.
type fileData struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	IsDir      bool   `json:"isdir"`
	Additional struct {
		Size int64 `json:"size"`
		Time struct {
			MTime int64 `json:"mtime"`
		} `json:"time"`
	} `json:"additional"`
}

// ListShares returns the NAS shared folders as directory entries.
//
// Unlike ListFiles, ListShares logs in with the stored credentials when
// no session exists yet: a share listing is the entry point of a fresh
// client, so the implicit login spares callers a separate handshake.
// Shares carry no modification time by protocol design; ModTime is the
// Unix epoch.
func (c *Client) ListShares(ctx context.Context) ([]provider.FileEntry, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	sid, token, ok := c.session()
	if !ok {
		if err := c.Login(ctx, ""); err != nil {
			return nil, err
		}
		sid, token, _ = c.session()
	}

	query := url.Values{
		"api":     {"SYNO.FileStation.List"},
		"version": {"2"},
		"method":  {"list_share"},
	}
	data, err := c.get(ctx, "list_share", query, sid, token, provider.ErrPermissionDenied)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Shares []shareData `json:"shares"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("synology: decode shares: %w", err)
	}

	entries := make([]provider.FileEntry, 0, len(payload.Shares))
	for _, s := range payload.Shares {
		entries = append(entries, provider.FileEntry{
			Name:    s.Name,
			IsDir:   true,
			Path:    s.Path,
			ModTime: time.Unix(0, 0),
		})
	}
	return entries, nil
}

// ListFiles returns the entries of the directory at path, with real size
// and modification time fetched in the same round trip.
//
// ListFiles requires an established session and never logs in implicitly:
// listing happens after an explicit login step elsewhere, and an implicit
// login here would hide an expired session from the caller. Without a
// session it fails with provider.ErrUnauthenticated.
func (c *Client) ListFiles(ctx context.Context, path string) ([]provider.FileEntry, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	sid, token, ok := c.session()
	if !ok {
		return nil, &Error{Op: "list", kind: provider.ErrUnauthenticated}
	}

	query := url.Values{
		"api":         {"SYNO.FileStation.List"},
		"version":     {"2"},
		"method":      {"list"},
		"folder_path": {path},
		"additional":  {`["real_path","size","owner","time"]`},
	}
	data, err := c.get(ctx, "list", query, sid, token, provider.ErrPermissionDenied)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Files []fileData `json:"files"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("synology: decode files: %w", err)
	}

	entries := make([]provider.FileEntry, 0, len(payload.Files))
	for _, f := range payload.Files {
		e := provider.FileEntry{
			Name:    f.Name,
			IsDir:   f.IsDir,
			Path:    f.Path,
			ModTime: time.Unix(f.Additional.Time.MTime, 0),
		}
		if !f.IsDir {
			size := f.Additional.Size
			e.Size = &size
		}
		entries = append(entries, e)
	}
	return entries, nil
}
