package web

import (
	"sort"
	"sync"
)

// registry tracks connected players.
// Thread-safe for concurrent access.
type registry struct {
	mu      sync.RWMutex
	players map[string]*player
}

// newRegistry creates an empty registry.
func newRegistry() *registry {
	return &registry{
		players: make(map[string]*player),
	}
}

// Register adds a player.
func (r *registry) Register(p *player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[p.id] = p
}

// Unregister removes a player.
func (r *registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
}

// Get returns the player by ID.
func (r *registry) Get(id string) (*player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	return p, ok
}

// Count returns the number of connected players.
func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// List returns all players, oldest connection first.
func (r *registry) List() []*player {
	r.mu.RLock()
	out := make([]*player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].connected.Before(out[j].connected)
	})
	return out
}
