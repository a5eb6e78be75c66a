// Package jupiter fetches the Jupiter token list.
package jupiter

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/swap-explorer/business/tokens/app"
	"github.com/fd1az/swap-explorer/business/tokens/domain"
	"github.com/fd1az/swap-explorer/internal/apperror"
	"github.com/fd1az/swap-explorer/internal/circuitbreaker"
	"github.com/fd1az/swap-explorer/internal/httpclient"
	"github.com/fd1az/swap-explorer/internal/logger"
)

const (
	tracerName = "jupiter-tokens"
	meterName  = "jupiter-tokens"
)

var _ app.CatalogSource = (*CatalogClient)(nil)

// catalogEntry is one element of the token list response. Decimals is
// decoded loosely so that a single odd record cannot sink the whole list.
type catalogEntry struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals *int   `json:"decimals"`
}

type catalogMetrics struct {
	fetchTotal   metric.Int64Counter
	fetchLatency metric.Float64Histogram
}

// CatalogClient implements CatalogSource over HTTP.
type CatalogClient struct {
	client httpclient.Client
	logger logger.LoggerInterface
	cb     *circuitbreaker.CircuitBreaker[[]catalogEntry]

	tracer  trace.Tracer
	metrics *catalogMetrics
}

// NewCatalogClient creates a client for the token list at url. A zero
// timeout leaves the deadline to the caller's context.
func NewCatalogClient(url string, timeout time.Duration, log logger.LoggerInterface) (*CatalogClient, error) {
	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("jupiter-tokens"),
		httpclient.WithBaseURL(url),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithTracer(tracer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	c := &CatalogClient{
		client: client,
		logger: log,
		tracer: tracer,
	}

	cbCfg := circuitbreaker.DefaultConfig("jupiter-tokens")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	c.cb = circuitbreaker.New[[]catalogEntry](cbCfg)

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return c, nil
}

func (c *CatalogClient) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &catalogMetrics{}

	c.metrics.fetchTotal, err = meter.Int64Counter(
		"jupiter_catalog_fetch_total",
		metric.WithDescription("Token list fetches by outcome"),
	)
	if err != nil {
		return err
	}

	c.metrics.fetchLatency, err = meter.Float64Histogram(
		"jupiter_catalog_fetch_latency_ms",
		metric.WithDescription("Token list fetch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

// FetchCatalog downloads the full token list. Records without an address
// are dropped; a missing decimals field is read as zero.
func (c *CatalogClient) FetchCatalog(ctx context.Context) ([]domain.TokenInfo, error) {
	ctx, span := c.tracer.Start(ctx, "jupiter.fetch_catalog")
	defer span.End()

	start := time.Now()
	entries, err := c.cb.Execute(func() ([]catalogEntry, error) {
		var out []catalogEntry
		_, err := c.client.NewRequestWithOptions(
			httpclient.WithLabels(httpclient.NewLabel("endpoint", "token_list")),
			httpclient.WithResponseErrorHandler(httpclient.StatusErrorHandler),
		).SetResult(&out).Get(ctx, "")
		return out, err
	})
	c.metrics.fetchLatency.Record(ctx, float64(time.Since(start).Milliseconds()))

	if err != nil {
		c.metrics.fetchTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "token list fetch failed")

		code := apperror.CodeCatalogUnavailable
		if circuitbreaker.IsOpen(err) {
			code = apperror.CodeCircuitOpen
		}
		return nil, apperror.External(code, "jupiter token list", err)
	}

	tokens := make([]domain.TokenInfo, 0, len(entries))
	for _, e := range entries {
		if e.Address == "" {
			continue
		}
		decimals := 0
		if e.Decimals != nil {
			decimals = *e.Decimals
		}
		if decimals < 0 || decimals > 255 {
			continue
		}
		tokens = append(tokens, domain.TokenInfo{
			Address:  e.Address,
			Symbol:   e.Symbol,
			Name:     e.Name,
			Decimals: uint8(decimals),
		})
	}

	c.metrics.fetchTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
	span.SetAttributes(attribute.Int("tokens", len(tokens)))
	span.SetStatus(codes.Ok, "token list received")

	c.logger.Debug(ctx, "jupiter token list fetched",
		"records", len(entries),
		"tokens", len(tokens),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tokens, nil
}
