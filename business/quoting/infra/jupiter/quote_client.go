// Package jupiter implements the RouteSource interface for the Jupiter quote API.
package jupiter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/swap-explorer/business/quoting/app"
	"github.com/fd1az/swap-explorer/business/quoting/domain"
	"github.com/fd1az/swap-explorer/internal/apperror"
	"github.com/fd1az/swap-explorer/internal/circuitbreaker"
	"github.com/fd1az/swap-explorer/internal/httpclient"
	"github.com/fd1az/swap-explorer/internal/logger"
	"github.com/fd1az/swap-explorer/internal/ratelimit"
)

const (
	tracerName = "jupiter-quote"
	meterName  = "jupiter-quote"

	apiKeyHeader = "x-api-key"
)

// Ensure QuoteClient implements RouteSource.
var _ app.RouteSource = (*QuoteClient)(nil)

var errNegativeOutAmount = errors.New("negative outAmount")

// Wire format. Numeric fields arrive either as JSON strings or numbers,
// decimal.Decimal accepts both.
type quoteResponse struct {
	Data []routeDTO `json:"data"`
}

type routeDTO struct {
	OutAmount      decimal.Decimal `json:"outAmount"`
	PriceImpactPct decimal.Decimal `json:"priceImpactPct"`
	MarketInfos    []marketInfoDTO `json:"marketInfos"`
}

type marketInfoDTO struct {
	Label      string `json:"label"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
}

// Config holds quote client settings.
type Config struct {
	BaseURL            string
	APIKey             string        // sent as x-api-key when set
	RequestTimeout     time.Duration // 0 leaves the deadline to the caller
	RateLimitPerMinute int
}

func (cfg Config) headers() map[string]string {
	h := map[string]string{"User-Agent": "swap-explorer"}
	if cfg.APIKey != "" {
		h[apiKeyHeader] = cfg.APIKey
	}
	return h
}

// quoteMetrics holds OTEL metric instruments.
type quoteMetrics struct {
	quotesTotal  metric.Int64Counter
	quoteLatency metric.Float64Histogram
	quoteErrors  metric.Int64Counter
	routesFound  metric.Int64Histogram
}

// QuoteClient fetches swap routes from Jupiter.
type QuoteClient struct {
	client httpclient.Client
	logger logger.LoggerInterface
	cb     *circuitbreaker.CircuitBreaker[*quoteResponse]

	tracer  trace.Tracer
	metrics *quoteMetrics
}

// NewQuoteClient creates a new Jupiter quote client.
func NewQuoteClient(cfg Config, log logger.LoggerInterface) (*QuoteClient, error) {
	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("jupiter-quote"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithHeaders(cfg.headers()),
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
		httpclient.WithRateLimiter(ratelimit.New(cfg.RateLimitPerMinute)),
		httpclient.WithTracer(tracer),
		httpclient.WithResponseBodyTracing(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	c := &QuoteClient{
		client: client,
		logger: log,
		tracer: tracer,
	}

	cbCfg := circuitbreaker.DefaultConfig("jupiter-quote")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	c.cb = circuitbreaker.New[*quoteResponse](cbCfg)

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return c, nil
}

func (c *QuoteClient) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &quoteMetrics{}

	c.metrics.quotesTotal, err = meter.Int64Counter(
		"jupiter_quotes_total",
		metric.WithDescription("Total number of Jupiter quote requests"),
	)
	if err != nil {
		return err
	}

	c.metrics.quoteLatency, err = meter.Float64Histogram(
		"jupiter_quote_latency_ms",
		metric.WithDescription("Jupiter quote latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	c.metrics.quoteErrors, err = meter.Int64Counter(
		"jupiter_quote_errors_total",
		metric.WithDescription("Total number of Jupiter quote errors"),
	)
	if err != nil {
		return err
	}

	c.metrics.routesFound, err = meter.Int64Histogram(
		"jupiter_quote_routes",
		metric.WithDescription("Number of routes returned per quote"),
	)
	return err
}

// FetchRoutes requests routes for req. The call is never retried.
func (c *QuoteClient) FetchRoutes(ctx context.Context, req domain.QuoteRequest) ([]domain.RouteCandidate, error) {
	ctx, span := c.tracer.Start(ctx, "jupiter.fetch_routes",
		trace.WithAttributes(
			attribute.String("input_mint", req.InputMint.String()),
			attribute.String("output_mint", req.OutputMint.String()),
			attribute.String("amount", req.Amount.String()),
		),
	)
	defer span.End()

	start := time.Now()
	c.metrics.quotesTotal.Add(ctx, 1)

	resp, err := c.cb.Execute(func() (*quoteResponse, error) {
		var out quoteResponse
		_, err := c.client.NewRequestWithOptions(
			httpclient.WithLabels(httpclient.NewLabel("endpoint", "quote")),
			httpclient.WithResponseErrorHandler(httpclient.StatusErrorHandler),
			httpclient.WithHeaderTracing(apiKeyHeader),
		).
			SetQueryParam("inputMint", req.InputMint.String()).
			SetQueryParam("outputMint", req.OutputMint.String()).
			SetQueryParam("amount", req.Amount.String()).
			SetQueryParam("slippage", strconv.Itoa(req.Slippage)).
			SetResult(&out).
			Get(ctx, "/quote")
		if err != nil {
			return nil, err
		}
		return &out, nil
	})
	c.metrics.quoteLatency.Record(ctx, float64(time.Since(start).Milliseconds()))

	if err != nil {
		return nil, c.fail(ctx, span, err)
	}

	candidates, err := toCandidates(resp.Data)
	if err != nil {
		return nil, c.fail(ctx, span, err)
	}

	c.metrics.routesFound.Record(ctx, int64(len(candidates)))
	span.SetAttributes(attribute.Int("routes", len(candidates)))
	span.SetStatus(codes.Ok, "quote received")

	c.logger.Debug(ctx, "jupiter quote received",
		"input_mint", req.InputMint,
		"output_mint", req.OutputMint,
		"amount", req.Amount.String(),
		"routes", len(candidates),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return candidates, nil
}

func (c *QuoteClient) fail(ctx context.Context, span trace.Span, err error) error {
	c.metrics.quoteErrors.Add(ctx, 1)
	span.RecordError(err)
	span.SetStatus(codes.Error, "quote failed")

	msg := "jupiter quote"
	if circuitbreaker.IsOpen(err) {
		msg = "jupiter quote: circuit open"
	}
	return apperror.External(apperror.CodeQuoteFetchFailed, msg, err)
}

func toCandidates(data []routeDTO) ([]domain.RouteCandidate, error) {
	candidates := make([]domain.RouteCandidate, 0, len(data))
	for _, r := range data {
		if r.OutAmount.IsNegative() {
			return nil, errNegativeOutAmount
		}

		hops := make([]domain.Hop, len(r.MarketInfos))
		for i, m := range r.MarketInfos {
			hops[i] = domain.Hop{Label: m.Label, InputMint: m.InputMint, OutputMint: m.OutputMint}
		}

		candidates = append(candidates, domain.RouteCandidate{
			OutAmount:   r.OutAmount.BigInt(),
			PriceImpact: r.PriceImpactPct,
			Hops:        hops,
		})
	}
	return candidates, nil
}
