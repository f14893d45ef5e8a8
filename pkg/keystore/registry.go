package keystore

import (
	"sync"

	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
)

// Registry maps feed identifiers to the public key of their latest session.
// Safe for concurrent use; the last registration for a feed wins.
type Registry struct {
	mu   sync.RWMutex
	keys map[string]cryptotypes.PubKey
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{keys: make(map[string]cryptotypes.PubKey)}
}

// Register records pub for feed.
func (r *Registry) Register(feed string, pub cryptotypes.PubKey) {
	r.mu.Lock()
	r.keys[feed] = pub
	r.mu.Unlock()
}

// Lookup returns the public key registered for feed.
func (r *Registry) Lookup(feed string) (cryptotypes.PubKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pub, ok := r.keys[feed]
	return pub, ok
}

// Len returns the number of registered feeds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}
