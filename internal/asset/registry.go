package asset

import (
	"fmt"
	"strings"
	"sync"
)

// Registry is a thread-safe index of known tokens, keyed by mint.
type Registry struct {
	byMint   map[Mint]*Asset
	bySymbol map[string][]*Asset // symbols are not unique on Solana
	mu       sync.RWMutex
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byMint:   make(map[Mint]*Asset),
		bySymbol: make(map[string][]*Asset),
	}
}

// Register adds an asset. The first registration of a mint wins.
func (r *Registry) Register(a *Asset) error {
	if a == nil {
		return ErrNilAsset
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byMint[a.Mint()]; exists {
		return fmt.Errorf("asset: %s already registered", a.Mint())
	}
	r.add(a)
	return nil
}

// Replace swaps the whole content atomically and returns the number of
// assets kept after de-duplication.
func (r *Registry) Replace(assets []*Asset) int {
	byMint := make(map[Mint]*Asset, len(assets))
	bySymbol := make(map[string][]*Asset, len(assets))
	for _, a := range assets {
		if a == nil {
			continue
		}
		if _, dup := byMint[a.Mint()]; dup {
			continue
		}
		byMint[a.Mint()] = a
		key := strings.ToUpper(a.Symbol())
		bySymbol[key] = append(bySymbol[key], a)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byMint = byMint
	r.bySymbol = bySymbol
	return len(byMint)
}

// Get retrieves an asset by mint.
func (r *Registry) Get(mint Mint) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byMint[mint]
	return a, ok
}

// GetBySymbol retrieves all assets with the given symbol, case-insensitive.
func (r *Registry) GetBySymbol(symbol string) []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assets := r.bySymbol[strings.ToUpper(symbol)]
	if len(assets) == 0 {
		return nil
	}

	result := make([]*Asset, len(assets))
	copy(result, assets)
	return result
}

// All returns all registered assets.
func (r *Registry) All() []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Asset, 0, len(r.byMint))
	for _, a := range r.byMint {
		result = append(result, a)
	}
	return result
}

// Count returns the number of registered assets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byMint)
}

// Has returns true if the mint is registered.
func (r *Registry) Has(mint Mint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byMint[mint]
	return ok
}

func (r *Registry) add(a *Asset) {
	r.byMint[a.Mint()] = a
	key := strings.ToUpper(a.Symbol())
	r.bySymbol[key] = append(r.bySymbol[key], a)
}
