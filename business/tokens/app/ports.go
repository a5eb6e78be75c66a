// Package app contains the token directory and its ports.
package app

import (
	"context"

	"github.com/fd1az/swap-explorer/business/tokens/domain"
)

// CatalogSource fetches the full token list from the network.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]domain.TokenInfo, error)
}

// CatalogCache persists the token list between runs. Entries never expire.
type CatalogCache interface {
	// Load returns ok=false when nothing is stored under key.
	Load(ctx context.Context, key string) (catalog domain.Catalog, ok bool, err error)
	Store(ctx context.Context, key string, catalog domain.Catalog) error
	Close() error
}
