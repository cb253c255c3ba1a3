package strategy

import (
	"sort"
	"sync"
)

// Registry is the static instrument-to-strategy mapping built at startup.
// It is safe for concurrent lookups, which the engine's parallel decide path
// relies on.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Register maps a symbol to a strategy, replacing any previous mapping.
func (r *Registry) Register(symbol string, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[symbol] = s
}

// Lookup returns the strategy for a symbol.
func (r *Registry) Lookup(symbol string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[symbol]
	return s, ok
}

// Symbols returns all registered symbols in sorted order.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.strategies))
	for sym := range r.strategies {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
