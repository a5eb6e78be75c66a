// Package tokens implements the token directory bounded context: it turns
// mint addresses into symbol and decimals using the Jupiter token list.
package tokens

import (
	"context"
	"fmt"

	"github.com/fd1az/swap-explorer/business/tokens/app"
	tokensDI "github.com/fd1az/swap-explorer/business/tokens/di"
	"github.com/fd1az/swap-explorer/business/tokens/infra/boltcache"
	"github.com/fd1az/swap-explorer/business/tokens/infra/jupiter"
	"github.com/fd1az/swap-explorer/business/tokens/infra/memcache"
	"github.com/fd1az/swap-explorer/internal/config"
	"github.com/fd1az/swap-explorer/internal/di"
	"github.com/fd1az/swap-explorer/internal/logger"
	"github.com/fd1az/swap-explorer/internal/monolith"
)

// Module implements the tokens bounded context.
type Module struct{}

// RegisterServices registers all token services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, tokensDI.CatalogSource, func(sr di.ServiceRegistry) app.CatalogSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := jupiter.NewCatalogClient(cfg.Jupiter.TokenListURL, cfg.Jupiter.RequestTimeout, log)
		if err != nil {
			panic("failed to create jupiter catalog client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, tokensDI.CatalogCache, func(sr di.ServiceRegistry) app.CatalogCache {
		cfg := sr.Get("config").(*config.Config)

		cache, err := NewCatalogCache(cfg.Cache)
		if err != nil {
			panic(err.Error())
		}
		return cache
	})

	di.RegisterToken(c, tokensDI.Directory, func(sr di.ServiceRegistry) *app.Directory {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewDirectory(
			tokensDI.GetCatalogSource(sr),
			tokensDI.GetCatalogCache(sr),
			cfg.Cache.CatalogKey,
			log,
		)
	})

	return nil
}

// NewCatalogCache opens the configured cache backend.
func NewCatalogCache(cfg config.CacheConfig) (app.CatalogCache, error) {
	switch cfg.Driver {
	case config.CacheDriverMemory:
		return memcache.New(), nil
	case config.CacheDriverBolt:
		store, err := boltcache.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog cache: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Startup initializes the tokens module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	cache := tokensDI.GetCatalogCache(mono.Services())
	mono.OnClose(cache.Close)

	if cfg.Explorer.WarmCatalog {
		dir := tokensDI.GetDirectory(mono.Services())
		go func() {
			if err := dir.Load(ctx); err != nil {
				log.Warn(ctx, "token catalog warm-up failed", "error", err)
			}
		}()
	}

	log.Info(ctx, "tokens module started", "cache", cfg.Cache.Driver)
	return nil
}
