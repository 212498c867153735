package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/seekfs/seekfs/pkg/provider"
	"github.com/seekfs/seekfs/pkg/synology"
)

// loginRequest is the body of POST /api/login.
type loginRequest struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code"`
	Secure   *bool  `json:"secure"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Host == "" || req.Username == "" {
		writeDetail(w, http.StatusBadRequest, "host and username are required")
		return
	}

	secure := true
	if req.Secure != nil {
		secure = *req.Secure
	}
	p, err := s.dial(r.Context(), synology.Config{
		Host:     req.Host,
		Port:     req.Port,
		Username: req.Username,
		Password: req.Password,
		Secure:   secure,
	}, req.OTPCode)
	if err != nil {
		slog.Warn("api: login failed", "host", req.Host, "user", req.Username, "error", err)
		writeError(w, err)
		return
	}

	token := s.registry.Register(p)
	slog.Info("api: session established", "host", req.Host, "user", req.Username)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeDetail(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if err := s.registry.Remove(token); err != nil {
		slog.Warn("api: session close failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	p, err := s.providerFor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		path = "."
	}

	// A remote backend's top level is its share list, not a directory.
	var entries []provider.FileEntry
	if lister, ok := p.(provider.ShareLister); ok && isRootPath(path) {
		entries, err = lister.ListShares(r.Context())
	} else {
		entries, err = p.ListFiles(r.Context(), path)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"path":  path,
		"files": entries,
	})
}

func isRootPath(path string) bool {
	return path == "/" || path == "." || path == ""
}

// searchRequest is the body of POST /api/search.
type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	results, err := s.search.Search(r.Context(), req.Query, req.MaxResults)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   req.Query,
		"results": results,
	})
}

// indexRequest is the body of POST /api/index.
type indexRequest struct {
	Directory string `json:"directory"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Directory == "" {
		req.Directory = "."
	}
	files, err := s.search.IndexDirectory(r.Context(), req.Directory)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("api: directory indexed", "directory", req.Directory, "files", len(files))
	writeJSON(w, http.StatusOK, map[string]any{
		"indexed_count": len(files),
		"indexed_files": files,
	})
}

func (s *Server) handleIndexedFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.search.ListIndexedFiles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(files),
		"files": files,
	})
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	folder := r.URL.Query().Get("path")
	if folder == "" {
		writeDetail(w, http.StatusBadRequest, "path query parameter is required")
		return
	}
	n, err := s.search.DeleteFolder(r.Context(), folder)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("api: folder removed from index", "folder", folder, "records", n)
	writeJSON(w, http.StatusOK, map[string]any{"deleted_count": n})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.search.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("api: index reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("api: encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
