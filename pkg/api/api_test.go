package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seekfs/seekfs/pkg/embed"
	"github.com/seekfs/seekfs/pkg/kv"
	"github.com/seekfs/seekfs/pkg/provider"
	"github.com/seekfs/seekfs/pkg/search"
	"github.com/seekfs/seekfs/pkg/session"
	"github.com/seekfs/seekfs/pkg/synology"
	"github.com/seekfs/seekfs/pkg/vecstore"
)

// fakeRemote emulates an authenticated NAS connection.
type fakeRemote struct {
	shares []provider.FileEntry
	files  map[string][]provider.FileEntry
	closed bool
}

func (f *fakeRemote) Kind() provider.Kind { return provider.KindRemote }
func (f *fakeRemote) Close() error        { f.closed = true; return nil }

func (f *fakeRemote) ListShares(ctx context.Context) ([]provider.FileEntry, error) {
	return f.shares, nil
}

func (f *fakeRemote) ListFiles(ctx context.Context, path string) ([]provider.FileEntry, error) {
	entries, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("fake: %s: %w", path, provider.ErrNotFound)
	}
	return entries, nil
}

type testEnv struct {
	server *httptest.Server
	remote *fakeRemote
	root   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hello from local"), 0o644); err != nil {
		t.Fatal(err)
	}
	local, err := provider.NewLocal(root)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	svc, err := search.New(search.Config{
		Store:    kv.NewMemory(),
		Vec:      vecstore.NewFlat(),
		Embedder: embed.NewHash(64),
		Root:     root,
	})
	if err != nil {
		t.Fatalf("search.New: %v", err)
	}

	remote := &fakeRemote{
		shares: []provider.FileEntry{
			{Name: "photo", IsDir: true, Path: "/photo", ModTime: time.Unix(0, 0)},
		},
		files: map[string][]provider.FileEntry{
			"/photo": {{Name: "cat.jpg", Path: "/photo/cat.jpg", ModTime: time.Unix(100, 0)}},
		},
	}

	srv := NewServer(Config{
		Registry: session.NewRegistry(),
		Search:   svc,
		Local:    local,
		Dial: func(ctx context.Context, cfg synology.Config, otp string) (provider.Provider, error) {
			if cfg.Password != "secret" {
				return nil, fmt.Errorf("dial %s: %w", cfg.Host, provider.ErrUnauthenticated)
			}
			return remote, nil
		},
	})

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return &testEnv{server: ts, remote: remote, root: root}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp, decoded
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/login", "", map[string]any{
		"host": "nas.local", "username": "admin", "password": "secret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, body = %v", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/api/login", "", map[string]any{
		"host": "nas.local", "username": "admin", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body["detail"] == "" {
		t.Fatal("error response has no detail")
	}
}

func TestListFilesLocalWithoutToken(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/files?path=.", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	files, _ := body["files"].([]any)
	if len(files) != 1 {
		t.Fatalf("files = %v, want the one local file", files)
	}
	entry := files[0].(map[string]any)
	if entry["name"] != "hello.txt" {
		t.Fatalf("name = %v, want hello.txt", entry["name"])
	}
}

func TestListFilesRemoteSharesAtRoot(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	resp, body := env.do(t, http.MethodGet, "/api/files?path=/", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	files, _ := body["files"].([]any)
	if len(files) != 1 || files[0].(map[string]any)["name"] != "photo" {
		t.Fatalf("files = %v, want the photo share", files)
	}

	resp, body = env.do(t, http.MethodGet, "/api/files?path=/photo", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	files, _ = body["files"].([]any)
	if len(files) != 1 || files[0].(map[string]any)["name"] != "cat.jpg" {
		t.Fatalf("files = %v, want cat.jpg", files)
	}
}

func TestListFilesUnknownToken(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/files?path=.", "not-a-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestListFilesNotFound(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/files?path=missing", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListFilesEscapeDenied(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/files?path=../", "", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestLogoutClosesSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	resp, _ := env.do(t, http.MethodDelete, "/api/session", token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", resp.StatusCode)
	}
	if !env.remote.closed {
		t.Fatal("remote provider not closed on logout")
	}

	resp, _ = env.do(t, http.MethodGet, "/api/files?path=/", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status after logout = %d, want 401", resp.StatusCode)
	}
}

func TestIndexAndSearchFlow(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/index", "", map[string]any{"directory": "."})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("index status = %d, body = %v", resp.StatusCode, body)
	}
	if n, _ := body["indexed_count"].(float64); n != 1 {
		t.Fatalf("indexed_count = %v, want 1", body["indexed_count"])
	}

	resp, body = env.do(t, http.MethodPost, "/api/search", "", map[string]any{"query": "hello"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d, body = %v", resp.StatusCode, body)
	}
	results, _ := body["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("results = %v, want one hit", results)
	}
	hit := results[0].(map[string]any)
	if hit["file_path"] != "hello.txt" {
		t.Fatalf("file_path = %v, want hello.txt", hit["file_path"])
	}

	resp, body = env.do(t, http.MethodGet, "/api/indexed-files", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("indexed-files status = %d", resp.StatusCode)
	}
	if n, _ := body["count"].(float64); n != 1 {
		t.Fatalf("count = %v, want 1", body["count"])
	}
}

func TestSearchEmptyQueryRejected(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/api/search", "", map[string]any{"query": "  "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestIndexOutsideRootRejected(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/api/index", "", map[string]any{"directory": "../"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteFolderAndReset(t *testing.T) {
	env := newTestEnv(t)
	if _, body := env.do(t, http.MethodPost, "/api/index", "", map[string]any{"directory": "."}); body["indexed_count"].(float64) != 1 {
		t.Fatalf("index body = %v", body)
	}

	resp, body := env.do(t, http.MethodDelete, "/api/indexed-folder?path=hello", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete-folder status = %d", resp.StatusCode)
	}
	if n, _ := body["deleted_count"].(float64); n != 1 {
		t.Fatalf("deleted_count = %v, want 1", body["deleted_count"])
	}

	resp, _ = env.do(t, http.MethodPost, "/api/reset", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d", resp.StatusCode)
	}
	_, body = env.do(t, http.MethodGet, "/api/indexed-files", "", nil)
	if n, _ := body["count"].(float64); n != 0 {
		t.Fatalf("count after reset = %v, want 0", body["count"])
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	req, err := http.NewRequest(http.MethodOptions, env.server.URL+"/api/search", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS origin header")
	}
}
