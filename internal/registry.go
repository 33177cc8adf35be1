package internal

import (
	"sync"

	"github.com/pitboss/pitboss/internal/core/client"
)

// sessionRegistry tracks the active session for each connected peer address.
// The accept loop and session goroutines overlap, so every mutation happens
// under the mutex; it is the only state shared across sessions.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*client.Client
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*client.Client)}
}

func (r *sessionRegistry) add(c *client.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[c.RemoteAddr()] = c
}

func (r *sessionRegistry) remove(c *client.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, c.RemoteAddr())
}

func (r *sessionRegistry) lookup(addr string) *client.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[addr]
}

func (r *sessionRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
