package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Registry hands out one Store per session. Carts live in memory for the
// lifetime of the process; there is no durable storage behind them.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*Store
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[string]*Store),
	}
}

// Session returns the store for sessionID, creating both when the ID is
// empty or unknown. The returned ID is the one callers should echo back to
// the client.
func (r *Registry) Session(sessionID string) (string, *Store) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	r.mu.RLock()
	store, ok := r.stores[sessionID]
	r.mu.RUnlock()
	if ok {
		return sessionID, store
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[sessionID]; ok {
		return sessionID, store
	}
	store = NewStore()
	r.stores[sessionID] = store
	return sessionID, store
}

// Len reports how many session carts are live.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}
