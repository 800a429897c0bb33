package realtime

import "sync"

// Conn is one live, authenticated channel to a browser tab. Implementations
// must be safe for concurrent Send calls.
type Conn interface {
	// Send writes a serialized envelope. It fails when the transport has
	// already closed.
	Send(data []byte) error
	// Open reports whether the transport is still usable at send time.
	Open() bool
}

// Registry tracks which live connections currently represent which user.
// A user may hold any number of connections (one per tab); the registry is
// purely in-memory and empties on restart.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]map[Conn]struct{}
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]map[Conn]struct{})}
}

// Register adds a connection to the user's set, creating the set if absent.
func (r *Registry) Register(userID string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[userID]
	if !ok {
		set = make(map[Conn]struct{})
		r.conns[userID] = set
	}
	set[c] = struct{}{}
}

// Unregister removes the connection wherever it is registered and drops the
// user's entry once its set drains. Registries stay small, so the scan over
// users is fine.
func (r *Registry) Unregister(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, set := range r.conns {
		if _, ok := set[c]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(r.conns, userID)
			}
		}
	}
}

// Connections returns a snapshot of the user's live connections. The
// snapshot may go stale immediately; senders must tolerate closed conns.
func (r *Registry) Connections(userID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.conns[userID]
	if len(set) == 0 {
		return nil
	}
	out := make([]Conn, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// NumConnections returns the total number of registered connections.
func (r *Registry) NumConnections() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, set := range r.conns {
		n += len(set)
	}
	return n
}

// NumUsers returns how many distinct users hold at least one connection.
func (r *Registry) NumUsers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
