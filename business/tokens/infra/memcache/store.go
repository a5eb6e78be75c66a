// Package memcache keeps the token catalog in process memory. It backs the
// directory in tests and when no cache file is wanted.
package memcache

import (
	"context"
	"maps"

	"github.com/patrickmn/go-cache"

	"github.com/fd1az/swap-explorer/business/tokens/app"
	"github.com/fd1az/swap-explorer/business/tokens/domain"
)

var _ app.CatalogCache = (*Store)(nil)

// Store is a go-cache backed CatalogCache without expiry.
type Store struct {
	items *cache.Cache
}

// New returns an empty store.
func New() *Store {
	return &Store{items: cache.New(cache.NoExpiration, 0)}
}

func (s *Store) Load(_ context.Context, key string) (domain.Catalog, bool, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	return maps.Clone(v.(domain.Catalog)), true, nil
}

func (s *Store) Store(_ context.Context, key string, catalog domain.Catalog) error {
	s.items.Set(key, maps.Clone(catalog), cache.NoExpiration)
	return nil
}

func (s *Store) Close() error {
	s.items.Flush()
	return nil
}
