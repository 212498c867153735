// Package api exposes the browsing and search services over HTTP.
//
// Authentication is per session: a login request dials the remote
// backend and, on success, returns an opaque bearer token that maps to
// the live connection in a [session.Registry]. Browsing requests carry
// the token in the Authorization header; requests without a token
// browse the sandboxed local provider instead. Search and catalog
// endpoints operate on the shared index and need no token.
//
// All error responses are JSON objects with a single "detail" field,
// with the status code derived from the provider error taxonomy.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/seekfs/seekfs/pkg/provider"
	"github.com/seekfs/seekfs/pkg/search"
	"github.com/seekfs/seekfs/pkg/session"
	"github.com/seekfs/seekfs/pkg/synology"
)

// DialFunc establishes an authenticated connection to a remote backend.
// Swappable in tests.
type DialFunc func(ctx context.Context, cfg synology.Config, otpCode string) (provider.Provider, error)

// dialSynology is the production DialFunc: connect and log in, closing
// the client if the login is rejected.
func dialSynology(ctx context.Context, cfg synology.Config, otpCode string) (provider.Provider, error) {
	c := synology.New(cfg)
	if err := c.Login(ctx, otpCode); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Config assembles a Server.
type Config struct {
	// Registry maps bearer tokens to live remote providers. Required.
	Registry *session.Registry

	// Search is the indexing and query engine. Required.
	Search *search.Service

	// Local serves unauthenticated browsing. Required.
	Local provider.Provider

	// Dial connects to remote backends on login.
	// Defaults to dialing a Synology NAS.
	Dial DialFunc
}

// Server is the HTTP front of the application.
type Server struct {
	registry *session.Registry
	search   *search.Service
	local    provider.Provider
	dial     DialFunc
	mux      *http.ServeMux
}

// NewServer wires the routes. The returned Server is an http.Handler.
func NewServer(cfg Config) *Server {
	dial := cfg.Dial
	if dial == nil {
		dial = dialSynology
	}
	s := &Server{
		registry: cfg.Registry,
		search:   cfg.Search,
		local:    cfg.Local,
		dial:     dial,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/login", s.handleLogin)
	s.mux.HandleFunc("DELETE /api/session", s.handleLogout)
	s.mux.HandleFunc("GET /api/files", s.handleListFiles)
	s.mux.HandleFunc("POST /api/search", s.handleSearch)
	s.mux.HandleFunc("POST /api/index", s.handleIndex)
	s.mux.HandleFunc("GET /api/indexed-files", s.handleIndexedFiles)
	s.mux.HandleFunc("DELETE /api/indexed-folder", s.handleDeleteFolder)
	s.mux.HandleFunc("POST /api/reset", s.handleReset)

	return s
}

// ServeHTTP dispatches through the CORS layer, then the route table.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.mux.ServeHTTP(w, r)
}

// bearerToken extracts the token from the Authorization header.
// Empty when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}

// providerFor picks the provider a browsing request operates on: the
// session's remote provider when a token is supplied, the local
// provider otherwise. A supplied but unknown token is an error, not a
// silent fallback.
func (s *Server) providerFor(r *http.Request) (provider.Provider, error) {
	token := bearerToken(r)
	if token == "" {
		return s.local, nil
	}
	p, err := s.registry.Resolve(token)
	if err != nil {
		slog.Debug("api: token resolution failed", "error", err)
		return nil, err
	}
	return p, nil
}
