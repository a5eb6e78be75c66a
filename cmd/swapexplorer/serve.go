package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	explorerDI "github.com/fd1az/swap-explorer/business/explorer/di"
	"github.com/fd1az/swap-explorer/business/explorer/infra/restapi"
	"github.com/fd1az/swap-explorer/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(flags *rootFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route explorer as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags.boot(false), func(ctx context.Context, e *env) error {
				if port > 0 {
					e.cfg.Server.Port = port
				}
				return serve(ctx, e)
			})
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")
	return cmd
}

func serve(ctx context.Context, e *env) error {
	if e.cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := restapi.NewRouter(explorerDI.GetAPIHandler(e.services), restapi.RouterConfig{
		CORSOrigins: e.cfg.Server.CORSOrigins,
		Health:      newHealthChecker(e).Handler(),
		Metrics:     metrics.Handler(),
	}, e.log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", e.cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       e.cfg.Server.ReadTimeout,
		WriteTimeout:      e.cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		e.log.Info(ctx, "api listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		e.log.Info(ctx, "shutting down api server")
		stopServer(ctx, e, "api", server.Shutdown)
		return nil
	})

	return g.Wait()
}

// stopServer shuts a server down with a bounded grace period, even when
// ctx is already cancelled.
func stopServer(ctx context.Context, e *env, name string, stop func(context.Context) error) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := stop(shutdownCtx); err != nil {
		e.log.Warn(ctx, "server shutdown failed", "server", name, "error", err)
	}
}
