// Package explorer implements the explorer bounded context: the query
// pipeline, the session reducer and the HTTP API.
package explorer

import (
	"context"

	"github.com/fd1az/swap-explorer/business/explorer/app"
	explorerDI "github.com/fd1az/swap-explorer/business/explorer/di"
	"github.com/fd1az/swap-explorer/business/explorer/infra/restapi"
	quotingDI "github.com/fd1az/swap-explorer/business/quoting/di"
	tokensDI "github.com/fd1az/swap-explorer/business/tokens/di"
	"github.com/fd1az/swap-explorer/internal/config"
	"github.com/fd1az/swap-explorer/internal/di"
	"github.com/fd1az/swap-explorer/internal/logger"
	"github.com/fd1az/swap-explorer/internal/monolith"
)

// Module implements the explorer bounded context.
type Module struct{}

// RegisterServices registers all explorer services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, explorerDI.Explorer, func(sr di.ServiceRegistry) *app.Explorer {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		e, err := app.NewExplorer(
			tokensDI.GetDirectory(sr),
			quotingDI.GetRouteSource(sr),
			app.Config{
				ReferenceMint:   cfg.Explorer.ReferenceMint,
				ReferenceSymbol: cfg.Explorer.ReferenceSymbol,
				Slippage:        cfg.Jupiter.Slippage,
				QueryTimeout:    cfg.Explorer.QueryTimeout,
			},
			log,
		)
		if err != nil {
			panic("failed to create explorer: " + err.Error())
		}
		return e
	})

	di.RegisterToken(c, explorerDI.APIHandler, func(sr di.ServiceRegistry) *restapi.Handler {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return restapi.NewHandler(
			explorerDI.GetExplorer(sr),
			tokensDI.GetDirectory(sr),
			cfg.Explorer.DefaultThresholdDecimal(),
			log,
		)
	})

	return nil
}

// Startup initializes the explorer module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()

	// Resolve eagerly so wiring errors surface at startup.
	explorerDI.GetExplorer(mono.Services())

	mono.Logger().Info(ctx, "explorer module started",
		"reference", cfg.Explorer.ReferenceSymbol,
		"default_threshold", cfg.Explorer.DefaultThreshold,
		"query_timeout", cfg.Explorer.QueryTimeout.String(),
	)
	return nil
}
