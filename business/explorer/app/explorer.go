package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/swap-explorer/business/explorer/domain"
	quotingApp "github.com/fd1az/swap-explorer/business/quoting/app"
	quoting "github.com/fd1az/swap-explorer/business/quoting/domain"
	tokens "github.com/fd1az/swap-explorer/business/tokens/domain"
	"github.com/fd1az/swap-explorer/internal/apperror"
	"github.com/fd1az/swap-explorer/internal/asset"
	"github.com/fd1az/swap-explorer/internal/logger"
)

const (
	tracerName = "explorer"
	meterName  = "explorer"
)

// Config holds pipeline settings.
type Config struct {
	ReferenceMint   string
	ReferenceSymbol string
	Slippage        int
	QueryTimeout    time.Duration // 0 means no deadline beyond the caller's
}

// QueryInput is one user query.
type QueryInput struct {
	Mode      domain.SwapMode
	TokenMint string // the non-reference side
	Amount    string // human units of the input token
	Threshold decimal.Decimal
}

// Outcome is the result of a successful query.
type Outcome struct {
	Request     quoting.QuoteRequest
	InputToken  tokens.TokenInfo
	OutputToken tokens.TokenInfo
	Evaluation  quoting.EvaluationResult
	Rows        []quoting.DisplayRow
	BestRate    asset.Price
}

type explorerMetrics struct {
	queriesTotal  metric.Int64Counter
	alarmsTotal   metric.Int64Counter
	queryDuration metric.Float64Histogram
}

// Explorer runs queries: resolve both tokens, convert the amount, fetch
// routes, evaluate the best one and render all of them.
type Explorer struct {
	resolver TokenResolver
	routes   quotingApp.RouteSource
	cfg      Config
	logger   logger.LoggerInterface

	tracer  trace.Tracer
	metrics *explorerMetrics
}

// NewExplorer creates the query pipeline.
func NewExplorer(resolver TokenResolver, routes quotingApp.RouteSource, cfg Config, log logger.LoggerInterface) (*Explorer, error) {
	if cfg.ReferenceSymbol == "" {
		cfg.ReferenceSymbol = "SOL"
	}
	if cfg.Slippage == 0 {
		cfg.Slippage = quoting.DefaultSlippage
	}

	e := &Explorer{
		resolver: resolver,
		routes:   routes,
		cfg:      cfg,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}
	if err := e.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return e, nil
}

func (e *Explorer) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	e.metrics = &explorerMetrics{}

	e.metrics.queriesTotal, err = meter.Int64Counter(
		"explorer_queries_total",
		metric.WithDescription("Route queries by outcome"),
	)
	if err != nil {
		return err
	}

	e.metrics.alarmsTotal, err = meter.Int64Counter(
		"explorer_alarms_total",
		metric.WithDescription("Queries whose best route triggered the alarm"),
	)
	if err != nil {
		return err
	}

	e.metrics.queryDuration, err = meter.Float64Histogram(
		"explorer_query_duration_ms",
		metric.WithDescription("End to end query duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

// ReferenceSymbol returns the symbol of the reference asset.
func (e *Explorer) ReferenceSymbol() string {
	return e.cfg.ReferenceSymbol
}

// Run executes one query. Every failure is terminal and nothing is
// retried. An empty route list fails with NO_ROUTE_FOUND.
func (e *Explorer) Run(ctx context.Context, in QueryInput) (*Outcome, error) {
	if e.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.QueryTimeout)
		defer cancel()
	}

	ctx, span := e.tracer.Start(ctx, "explorer.run",
		trace.WithAttributes(
			attribute.String("mode", in.Mode.String()),
			attribute.String("token_mint", in.TokenMint),
			attribute.String("amount", in.Amount),
		),
	)
	defer span.End()

	start := time.Now()
	out, err := e.run(ctx, in)
	e.metrics.queryDuration.Record(ctx, float64(time.Since(start).Milliseconds()))

	if err != nil {
		code := apperror.GetCode(err)
		e.metrics.queriesTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("outcome", strings.ToLower(string(code)))))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))

		e.logger.Warn(ctx, "query failed",
			"mode", in.Mode.String(),
			"token_mint", in.TokenMint,
			"amount", in.Amount,
			"code", code,
			"error", err,
		)
		return nil, err
	}

	e.metrics.queriesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
	if out.Evaluation.AlarmTriggered {
		e.metrics.alarmsTotal.Add(ctx, 1)
	}
	span.SetAttributes(
		attribute.Int("routes", len(out.Rows)),
		attribute.Bool("alarm", out.Evaluation.AlarmTriggered),
	)
	span.SetStatus(codes.Ok, "query complete")

	e.logger.Info(ctx, "query complete",
		"mode", in.Mode.String(),
		"pair", out.BestRate.Pair(),
		"routes", len(out.Rows),
		"alarm", out.Evaluation.AlarmTriggered,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (e *Explorer) run(ctx context.Context, in QueryInput) (*Outcome, error) {
	inTok, outTok, err := e.resolveLegs(ctx, in)
	if err != nil {
		return nil, err
	}

	inAsset, err := inTok.Asset()
	if err != nil {
		return nil, apperror.New(apperror.CodeTokenNotFound, apperror.WithContext("input token"), apperror.WithCause(err))
	}
	outAsset, err := outTok.Asset()
	if err != nil {
		return nil, apperror.New(apperror.CodeTokenNotFound, apperror.WithContext("output token"), apperror.WithCause(err))
	}

	amount, err := asset.ParseString(inAsset, in.Amount)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidAmount, apperror.WithContext(in.Amount), apperror.WithCause(err))
	}

	req, err := quoting.NewQuoteRequest(inAsset.Mint(), outAsset.Mint(), amount.Raw(), e.cfg.Slippage)
	if err != nil {
		return nil, err
	}
	e.logger.Debug(ctx, "quote request built",
		"input", inAsset.Symbol(),
		"output", outAsset.Symbol(),
		"amount", amount.String(),
		"base_units", req.Amount.String(),
	)

	candidates, err := e.routes.FetchRoutes(ctx, req)
	if err != nil {
		if !apperror.IsAppError(err) {
			err = apperror.External(apperror.CodeQuoteFetchFailed, "route source", err)
		}
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, apperror.New(apperror.CodeNoRouteFound,
			apperror.WithContext(inAsset.Symbol()+"/"+outAsset.Symbol()))
	}

	evaluation := quoting.Evaluate(candidates, in.Threshold)
	best, _ := evaluation.Best()

	out := &Outcome{
		Request:     req,
		InputToken:  inTok,
		OutputToken: outTok,
		Evaluation:  evaluation,
		Rows:        quoting.Format(candidates, outTok.Decimals),
	}
	if best.OutAmount != nil && best.OutAmount.Sign() >= 0 {
		rate, err := asset.PriceFromAmounts(amount, asset.NewAmount(outAsset, best.OutAmount))
		if err == nil {
			out.BestRate = rate
		}
	}
	return out, nil
}

// resolveLegs looks up the user's token first and the reference second.
func (e *Explorer) resolveLegs(ctx context.Context, in QueryInput) (input, output tokens.TokenInfo, err error) {
	refLeg := e.cfg.ReferenceSymbol + " token"

	switch in.Mode {
	case domain.ReferenceToToken:
		if output, err = e.resolve(ctx, in.TokenMint, "output token"); err != nil {
			return
		}
		input, err = e.resolve(ctx, e.cfg.ReferenceMint, refLeg)
	default:
		if input, err = e.resolve(ctx, in.TokenMint, "input token"); err != nil {
			return
		}
		output, err = e.resolve(ctx, e.cfg.ReferenceMint, refLeg)
	}
	return
}

func (e *Explorer) resolve(ctx context.Context, address, leg string) (tokens.TokenInfo, error) {
	info, err := e.resolver.Resolve(ctx, strings.TrimSpace(address))
	if err == nil {
		return info, nil
	}
	if apperror.GetCode(err) == apperror.CodeTokenNotFound {
		return tokens.TokenInfo{}, apperror.New(apperror.CodeTokenNotFound,
			apperror.WithContext(leg), apperror.WithCause(err))
	}
	return tokens.TokenInfo{}, err
}
