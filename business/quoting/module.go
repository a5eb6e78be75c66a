// Package quoting implements the quoting bounded context: fetching,
// evaluating and rendering swap routes.
package quoting

import (
	"context"

	"github.com/fd1az/swap-explorer/business/quoting/app"
	quotingDI "github.com/fd1az/swap-explorer/business/quoting/di"
	"github.com/fd1az/swap-explorer/business/quoting/infra/jupiter"
	"github.com/fd1az/swap-explorer/internal/config"
	"github.com/fd1az/swap-explorer/internal/di"
	"github.com/fd1az/swap-explorer/internal/logger"
	"github.com/fd1az/swap-explorer/internal/monolith"
)

// Module implements the quoting bounded context.
type Module struct{}

// RegisterServices registers all quoting services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, quotingDI.RouteSource, func(sr di.ServiceRegistry) app.RouteSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := jupiter.NewQuoteClient(jupiter.Config{
			BaseURL:            cfg.Jupiter.QuoteURL,
			APIKey:             cfg.Jupiter.APIKey,
			RequestTimeout:     cfg.Jupiter.RequestTimeout,
			RateLimitPerMinute: cfg.Jupiter.RateLimitPerMinute,
		}, log)
		if err != nil {
			panic("failed to create jupiter quote client: " + err.Error())
		}
		return client
	})

	return nil
}

// Startup initializes the quoting module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	mono.Logger().Info(ctx, "quoting module started",
		"quote_url", cfg.Jupiter.QuoteURL,
		"rate_limit_per_minute", cfg.Jupiter.RateLimitPerMinute,
	)
	return nil
}
