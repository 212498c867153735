// Package session maps opaque bearer tokens to live provider instances.
//
// A Registry is an explicitly owned object passed into request handling,
// not process-global state, so tests can construct isolated registries.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/seekfs/seekfs/pkg/provider"
)

// ErrUnknownToken is returned by Resolve for tokens that were never
// registered or have been removed. It classifies as an authentication
// failure.
var ErrUnknownToken = fmt.Errorf("session: unknown token: %w", provider.ErrUnauthenticated)

// Registry holds the live sessions of one process. Safe for concurrent
// use; Resolve calls may run concurrently with each other and with
// Register of unrelated tokens.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]provider.Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]provider.Provider)}
}

// Register stores p under a fresh opaque token and returns the token.
// The registry takes ownership of p; it is closed on Remove or Teardown.
func (r *Registry) Register(p provider.Provider) string {
	token := uuid.NewString()
	r.mu.Lock()
	r.sessions[token] = p
	r.mu.Unlock()
	return token
}

// Resolve returns the provider registered under token. Exact lookup, no
// expiry beyond explicit removal.
func (r *Registry) Resolve(token string) (provider.Provider, error) {
	r.mu.RLock()
	p, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownToken
	}
	return p, nil
}

// Remove drops the session and closes its provider. Removing an unknown
// token is a no-op.
func (r *Registry) Remove(token string) error {
	r.mu.Lock()
	p, ok := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return p.Close()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Teardown closes every registered provider and empties the registry.
// Close failures are logged, not propagated: teardown runs during process
// shutdown where best-effort cleanup beats aborting halfway.
func (r *Registry) Teardown() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]provider.Provider)
	r.mu.Unlock()

	for token, p := range sessions {
		if err := p.Close(); err != nil {
			slog.Warn("session teardown: close failed",
				"token", token[:8], "kind", p.Kind().String(), "error", err)
		}
	}
}
