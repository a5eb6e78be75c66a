// Package apm configures OpenTelemetry tracing.
package apm

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/fd1az/swap-explorer/internal/logger"
)

type Provider string

const (
	ZipkinProvider   Provider = "zipkin"
	OTLPGRPCProvider Provider = "otlp-grpc"
	OTLPHTTPProvider Provider = "otlp-http"
	ConsoleProvider  Provider = "console"
	EmptyProvider    Provider = "none"
)

// ParseProvider maps a config value to a Provider. Unknown values yield
// EmptyProvider.
func ParseProvider(s string) Provider {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ZipkinProvider, OTLPGRPCProvider, OTLPHTTPProvider, ConsoleProvider:
		return p
	default:
		return EmptyProvider
	}
}

type TraceProvider interface {
	Stop() error
}

type emptyTraceProvider struct{}

func (emptyTraceProvider) Stop() error { return nil }

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

type TracerOptions struct {
	serviceName string
	endpoint    string
	headers     map[string]string
	console     io.Writer
}

type TracerOption func(*TracerOptions)

func WithServiceName(name string) TracerOption {
	return func(o *TracerOptions) { o.serviceName = name }
}

// WithEndpoint sets the collector URL used by the zipkin and otlp providers.
func WithEndpoint(url string) TracerOption {
	return func(o *TracerOptions) { o.endpoint = url }
}

// WithHeaders sets exporter headers from a "k1=v1,k2=v2" list.
func WithHeaders(list string) TracerOption {
	return func(o *TracerOptions) { o.headers = ParseHeaders(list) }
}

// WithConsoleWriter sets where the console provider writes spans.
func WithConsoleWriter(w io.Writer) TracerOption {
	return func(o *TracerOptions) { o.console = w }
}

// ParseHeaders reads a comma separated list of key=value pairs. Malformed
// pairs are skipped.
func ParseHeaders(list string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(list, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || k == "" {
			continue
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers
}

func newExporter(ctx context.Context, provider Provider, opts *TracerOptions) (sdktrace.SpanExporter, error) {
	switch provider {
	case ZipkinProvider:
		return zipkin.New(opts.endpoint)
	case OTLPGRPCProvider:
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(opts.endpoint),
			otlptracegrpc.WithHeaders(opts.headers),
		)
	case OTLPHTTPProvider:
		return otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(opts.endpoint),
			otlptracehttp.WithHeaders(opts.headers),
		)
	case ConsoleProvider:
		w := opts.console
		if w == nil {
			w = io.Discard
		}
		return stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unsupported trace provider %q", provider)
	}
}

// NewTraceProvider installs a global tracer provider exporting to provider.
// EmptyProvider installs nothing and leaves the otel no-op tracer in place.
func NewTraceProvider(log logger.LoggerInterface, provider Provider, options ...TracerOption) (TraceProvider, error) {
	ctx := context.Background()

	if provider == EmptyProvider {
		log.Debug(ctx, "tracing disabled")
		return emptyTraceProvider{}, nil
	}

	opts := &TracerOptions{}
	for _, opt := range options {
		opt(opts)
	}

	exp, err := newExporter(ctx, provider, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s exporter: %w", provider, err)
	}

	rsrc, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(opts.serviceName),
			attribute.String("otel.provider", string(provider)),
		))
	if err != nil {
		log.Warn(ctx, "trace resource merge failed, using default", "error", err)
		rsrc = resource.Default()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(rsrc),
	)

	// Set global trace provider
	otel.SetTracerProvider(tp)

	// Set trace propagator
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	log.Info(ctx, "tracing enabled", "provider", string(provider), "endpoint", opts.endpoint)

	return &traceProvider{
		tp,
	}, nil
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := o.tp.Shutdown(ctx); err != nil {
		return err
	}

	return nil
}
