package match

import (
	"errors"
	"sync"
)

var ErrPlayerBusy = errors.New("player is already in a match")

type pairKey [2]string

func keyOf(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Registry holds the active matches, keyed by the unordered player pair. A
// player is in at most one active match.
type Registry struct {
	mu       sync.RWMutex
	byPair   map[pairKey]*Match
	byPlayer map[string]*Match
}

func NewRegistry() *Registry {
	return &Registry{
		byPair:   make(map[pairKey]*Match),
		byPlayer: make(map[string]*Match),
	}
}

// Add registers m. It fails if either player already has an active match.
func (r *Registry) Add(m *Match) error {
	a, b := m.Players()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byPlayer[a]; ok {
		return ErrPlayerBusy
	}
	if _, ok := r.byPlayer[b]; ok {
		return ErrPlayerBusy
	}
	r.byPair[keyOf(a, b)] = m
	r.byPlayer[a] = m
	r.byPlayer[b] = m
	return nil
}

// Get returns the match between a and b, in either order.
func (r *Registry) Get(a, b string) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byPair[keyOf(a, b)]
	return m, ok
}

// Find returns the active match player is in.
func (r *Registry) Find(player string) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byPlayer[player]
	return m, ok
}

// Busy reports whether player is in an active match.
func (r *Registry) Busy(player string) bool {
	_, ok := r.Find(player)
	return ok
}

// Remove drops m if it is still the registered match for its pair.
func (r *Registry) Remove(m *Match) bool {
	a, b := m.Players()
	k := keyOf(a, b)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byPair[k] != m {
		return false
	}
	delete(r.byPair, k)
	delete(r.byPlayer, a)
	delete(r.byPlayer, b)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byPair)
}

// CloseAll stops every match's timer and empties the registry.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	matches := make([]*Match, 0, len(r.byPair))
	for _, m := range r.byPair {
		matches = append(matches, m)
	}
	r.byPair = make(map[pairKey]*Match)
	r.byPlayer = make(map[string]*Match)
	r.mu.Unlock()

	for _, m := range matches {
		m.Close()
	}
}
