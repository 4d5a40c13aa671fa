package registry

import (
	"sync"

	"github.com/souravsouru7/barbez/internal/core/contracts"
)

// Entry is one identity→connection binding.
type Entry struct {
	Identity string
	Conn     contracts.Conn
}

// Registry is the in-memory presence directory: at most one live connection
// per identity, last registration wins. It is the single shared mutable
// resource of the chat core; every method is one critical section.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]contracts.Conn
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]contracts.Conn),
	}
}

// Register binds identity to conn, overwriting any existing binding. A prior
// connection bound to the same identity is left open; it simply becomes
// unreachable by identity until its own close event fires.
func (r *Registry) Register(identity string, conn contracts.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[identity] = conn
}

// Unregister removes the binding that points at conn, if any, and returns the
// identity it removed. The reverse scan keeps the registry the single source
// of truth instead of storing identity on the transport object; O(n) is fine
// at the connection counts this serves. No match is a no-op, not an error;
// that is the normal case for never-identified or already-rebound connections.
func (r *Registry) Unregister(conn contracts.Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for identity, c := range r.conns {
		if c == conn {
			delete(r.conns, identity)
			return identity, true
		}
	}
	return "", false
}

// Lookup returns the live connection bound to identity. Absence is a valid
// outcome meaning the party is offline.
func (r *Registry) Lookup(identity string) (contracts.Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[identity]
	return c, ok
}

// All returns a snapshot of the current bindings in unspecified order, so
// broadcast iteration never races a concurrent register or unregister.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.conns))
	for identity, c := range r.conns {
		entries = append(entries, Entry{Identity: identity, Conn: c})
	}
	return entries
}

// Len reports the number of currently identified connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
