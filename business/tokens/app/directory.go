package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fd1az/swap-explorer/business/tokens/domain"
	"github.com/fd1az/swap-explorer/internal/apperror"
	"github.com/fd1az/swap-explorer/internal/asset"
	"github.com/fd1az/swap-explorer/internal/logger"
)

var errEmptyCatalog = errors.New("token list is empty")

// LoadState describes the directory lifecycle.
type LoadState int

const (
	StateEmpty LoadState = iota
	StateLoaded
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "empty"
	}
}

// Load origins.
const (
	OriginCache   = "cache"
	OriginNetwork = "network"
)

// Status is a snapshot for health checks and the tokens command.
type Status struct {
	State    LoadState
	Tokens   int
	Origin   string
	LoadedAt time.Time
	Err      error
}

// Directory resolves mint addresses to token metadata. The catalog is
// loaded on first use, from the cache if present, otherwise from the
// network, and stays in memory for the life of the process. A failed
// network load is sticky until Refresh.
type Directory struct {
	source   CatalogSource
	cache    CatalogCache
	key      string
	logger   logger.LoggerInterface
	registry *asset.Registry
	group    singleflight.Group

	mu       sync.RWMutex
	state    LoadState
	origin   string
	loadedAt time.Time
	loadErr  error
}

// NewDirectory wires a directory. key is the cache entry holding the catalog.
func NewDirectory(source CatalogSource, cache CatalogCache, key string, log logger.LoggerInterface) *Directory {
	return &Directory{
		source:   source,
		cache:    cache,
		key:      key,
		logger:   log,
		registry: asset.NewRegistry(),
	}
}

// Resolve returns the token for address. It fails with CATALOG_UNAVAILABLE
// when the catalog could not be loaded and TOKEN_NOT_FOUND otherwise.
func (d *Directory) Resolve(ctx context.Context, address string) (domain.TokenInfo, error) {
	if err := d.ensureLoaded(ctx); err != nil {
		return domain.TokenInfo{}, err
	}

	mint, err := asset.ParseMint(address)
	if err != nil {
		return domain.TokenInfo{}, apperror.New(apperror.CodeTokenNotFound,
			apperror.WithContext(asset.Prefix(address, 44)), apperror.WithCause(err))
	}

	a, ok := d.registry.Get(mint)
	if !ok {
		return domain.TokenInfo{}, apperror.NotFound(apperror.CodeTokenNotFound, address)
	}
	return domain.TokenInfoFromAsset(a), nil
}

// FindBySymbol lists catalog tokens carrying symbol, case-insensitive.
func (d *Directory) FindBySymbol(ctx context.Context, symbol string) ([]domain.TokenInfo, error) {
	if err := d.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	matches := d.registry.GetBySymbol(symbol)
	out := make([]domain.TokenInfo, 0, len(matches))
	for _, a := range matches {
		out = append(out, domain.TokenInfoFromAsset(a))
	}
	return out, nil
}

// Load populates the directory if it is still empty. It is safe to call
// before any Resolve to warm the catalog.
func (d *Directory) Load(ctx context.Context) error {
	return d.ensureLoaded(ctx)
}

// Refresh fetches the catalog from the network, replaces the in-memory copy
// and overwrites the cache. On failure the current state is kept. It
// returns the number of tokens loaded.
func (d *Directory) Refresh(ctx context.Context) (int, error) {
	_, err, _ := d.group.Do("refresh", func() (any, error) {
		return nil, d.loadFromNetwork(ctx)
	})
	if err != nil {
		return 0, apperror.External(apperror.CodeCatalogUnavailable, "token list refresh", err)
	}
	return d.registry.Count(), nil
}

// Status reports the current lifecycle state.
func (d *Directory) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Status{
		State:    d.state,
		Tokens:   d.registry.Count(),
		Origin:   d.origin,
		LoadedAt: d.loadedAt,
		Err:      d.loadErr,
	}
}

// Len returns the number of tokens currently held.
func (d *Directory) Len() int {
	return d.registry.Count()
}

// Ready reports whether lookups can succeed.
func (d *Directory) Ready() bool {
	return d.Status().State == StateLoaded
}

func (d *Directory) ensureLoaded(ctx context.Context) error {
	d.mu.RLock()
	state, loadErr := d.state, d.loadErr
	d.mu.RUnlock()

	switch state {
	case StateLoaded:
		return nil
	case StateFailed:
		return loadErr
	}

	// The shared load outlives any single caller so that an abandoned query
	// cannot leave the process-wide catalog half loaded.
	ch := d.group.DoChan("load", func() (any, error) {
		return nil, d.populate(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return apperror.External(apperror.CodeCatalogUnavailable, "waiting for token list", ctx.Err())
	}
}

func (d *Directory) populate(ctx context.Context) error {
	d.mu.RLock()
	state, loadErr := d.state, d.loadErr
	d.mu.RUnlock()
	if state == StateLoaded {
		return nil
	}
	if state == StateFailed {
		return loadErr
	}

	catalog, ok, err := d.cache.Load(ctx, d.key)
	switch {
	case err != nil:
		d.logger.Warn(ctx, "token catalog cache unreadable, fetching from network", "key", d.key, "error", err)
	case ok && len(catalog) > 0:
		kept := d.install(catalog.Tokens())
		d.markLoaded(OriginCache)
		d.logger.Info(ctx, "token catalog loaded", "origin", OriginCache, "tokens", kept)
		return nil
	}

	if err := d.loadFromNetwork(ctx); err != nil {
		appErr := apperror.External(apperror.CodeCatalogUnavailable, "token list fetch", err)
		d.mu.Lock()
		d.state = StateFailed
		d.loadErr = appErr
		d.mu.Unlock()
		d.logger.Error(ctx, "token catalog unavailable", "error", err)
		return appErr
	}
	return nil
}

func (d *Directory) loadFromNetwork(ctx context.Context) error {
	start := time.Now()
	tokens, err := d.source.FetchCatalog(ctx)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return errEmptyCatalog
	}

	kept := d.install(tokens)
	d.markLoaded(OriginNetwork)

	if err := d.cache.Store(ctx, d.key, d.snapshot()); err != nil {
		d.logger.Warn(ctx, "failed to persist token catalog", "key", d.key, "error", err)
	}

	d.logger.Info(ctx, "token catalog loaded",
		"origin", OriginNetwork,
		"tokens", kept,
		"skipped", len(tokens)-kept,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// install converts records into registry entries, dropping malformed ones.
func (d *Directory) install(tokens []domain.TokenInfo) int {
	assets := make([]*asset.Asset, 0, len(tokens))
	for _, t := range tokens {
		a, err := t.Asset()
		if err != nil {
			continue
		}
		assets = append(assets, a)
	}
	return d.registry.Replace(assets)
}

func (d *Directory) snapshot() domain.Catalog {
	all := d.registry.All()
	tokens := make([]domain.TokenInfo, 0, len(all))
	for _, a := range all {
		tokens = append(tokens, domain.TokenInfoFromAsset(a))
	}
	return domain.NewCatalog(tokens)
}

func (d *Directory) markLoaded(origin string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = StateLoaded
	d.origin = origin
	d.loadedAt = time.Now()
	d.loadErr = nil
}
