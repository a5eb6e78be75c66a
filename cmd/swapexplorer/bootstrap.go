package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fd1az/swap-explorer/business/explorer"
	"github.com/fd1az/swap-explorer/business/quoting"
	"github.com/fd1az/swap-explorer/business/tokens"
	tokensApp "github.com/fd1az/swap-explorer/business/tokens/app"
	tokensDI "github.com/fd1az/swap-explorer/business/tokens/di"
	"github.com/fd1az/swap-explorer/internal/apm"
	"github.com/fd1az/swap-explorer/internal/config"
	"github.com/fd1az/swap-explorer/internal/di"
	"github.com/fd1az/swap-explorer/internal/health"
	"github.com/fd1az/swap-explorer/internal/logger"
	"github.com/fd1az/swap-explorer/internal/metrics"
	"github.com/fd1az/swap-explorer/internal/monolith"
)

type bootOptions struct {
	configPath string
	logLevel   string
	// quiet keeps the terminal free for the TUI: logs go to app.log_file
	// or nowhere.
	quiet bool
}

// env is what a command gets once the modules are running.
type env struct {
	cfg      *config.Config
	log      *logger.Logger
	services di.ServiceRegistry
}

// withApp loads configuration, wires logging and telemetry, starts the
// modules and runs fn. Everything is torn down when fn returns.
func withApp(ctx context.Context, opts bootOptions, fn func(ctx context.Context, e *env) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.App.LogLevel = opts.logLevel
	}

	out, closeOut, err := logOutput(cfg, opts.quiet)
	if err != nil {
		return err
	}
	defer closeOut()

	log := logger.New(out, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, apm.TraceID)
	defer func() { _ = log.Sync() }()

	log.Info(ctx, "starting swap explorer",
		"version", version,
		"commit", commit,
		"environment", cfg.App.Environment,
	)

	stopTelemetry, err := setupTelemetry(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stopTelemetry()

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer func() {
		if err := mono.Close(); err != nil {
			log.Warn(ctx, "shutdown finished with errors", "error", err)
		}
	}()

	// Define modules in dependency order
	modules := []monolith.Module{
		&tokens.Module{},
		&quoting.Module{},
		&explorer.Module{}, // depends on tokens and quoting
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	return fn(ctx, &env{cfg: cfg, log: log, services: mono.Services()})
}

func logOutput(cfg *config.Config, quiet bool) (io.Writer, func(), error) {
	if !quiet {
		return os.Stderr, func() {}, nil
	}
	if cfg.App.LogFile == "" {
		return io.Discard, func() {}, nil
	}

	f, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// setupTelemetry installs the global tracer and meter providers. With
// telemetry disabled the otel no-op providers stay in place.
func setupTelemetry(ctx context.Context, cfg *config.Config, log logger.LoggerInterface) (func(), error) {
	tcfg := cfg.Telemetry
	if !tcfg.Enabled {
		return func() {}, nil
	}

	provider := apm.ParseProvider(tcfg.TraceProvider)
	traceProvider, err := apm.NewTraceProvider(log, provider,
		apm.WithServiceName(tcfg.ServiceName),
		apm.WithEndpoint(tcfg.OTLPEndpoint),
		apm.WithHeaders(tcfg.OTLPHeaders),
		apm.WithConsoleWriter(os.Stderr),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	log.Info(ctx, "tracing initialized", "provider", provider, "endpoint", tcfg.OTLPEndpoint)

	metricOpts := []metrics.OptionFn{
		metrics.WithServiceName(tcfg.ServiceName),
		metrics.WithProviderConfig(metrics.ProviderCfg{Provider: metrics.PrometheusProvider}),
	}
	if provider == apm.OTLPGRPCProvider && tcfg.OTLPEndpoint != "" {
		insecure := strings.HasPrefix(tcfg.OTLPEndpoint, "http://")
		metricOpts = append(metricOpts, metrics.WithProviderConfig(
			metrics.NewOtelCollectorConfig(tcfg.OTLPEndpoint, apm.ParseHeaders(tcfg.OTLPHeaders), insecure),
		))
	}

	meterProvider, err := metrics.NewMetricProvider(metricOpts...)
	if err != nil {
		_ = traceProvider.Stop()
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn(ctx, "meter provider shutdown failed", "error", err)
		}
		if err := traceProvider.Stop(); err != nil {
			log.Warn(ctx, "trace provider shutdown failed", "error", err)
		}
	}, nil
}

// newHealthChecker registers the checks shared by the TUI and the API.
func newHealthChecker(e *env) *health.Checker {
	checker := health.NewChecker(version)
	dir := tokensDI.GetDirectory(e.services)

	checker.RegisterCheck("token_catalog", func(ctx context.Context) (bool, string) {
		st := dir.Status()
		switch st.State {
		case tokensApp.StateLoaded:
			return true, fmt.Sprintf("%d tokens from %s", st.Tokens, st.Origin)
		case tokensApp.StateFailed:
			if st.Err == nil {
				return false, "token list unavailable"
			}
			return false, st.Err.Error()
		default:
			return true, "loaded on first use"
		}
	})
	return checker
}
