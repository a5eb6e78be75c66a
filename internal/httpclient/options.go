// Package httpclient provides an instrumented HTTP client with OTEL tracing and metrics.
package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/swap-explorer/internal/ratelimit"
)

// ClientOptions configures NewInstrumentedClient.
type ClientOptions struct {
	meterProvider  metric.MeterProvider
	providerName   string
	roundTripper   http.RoundTripper
	requestTimeout *time.Duration
	headers        map[string]string
	baseURL        string
	tracer         trace.Tracer
	logResponse    bool
	limiter        *ratelimit.Limiter
}

// ClientOption configures ClientOptions.
type ClientOption func(*ClientOptions)

// NewClientOptions applies opts in order.
func NewClientOptions(opts ...ClientOption) *ClientOptions {
	options := &ClientOptions{}
	for _, o := range opts {
		o(options)
	}
	return options
}

// WithProviderName labels metrics and spans, e.g. "jupiter-quote".
func WithProviderName(name string) ClientOption {
	return func(o *ClientOptions) { o.providerName = name }
}

// WithBaseURL is prepended to relative request paths.
func WithBaseURL(url string) ClientOption {
	return func(o *ClientOptions) { o.baseURL = url }
}

// WithHeaders sets headers sent with every request. Per-request SetHeader
// calls win.
func WithHeaders(headers map[string]string) ClientOption {
	return func(o *ClientOptions) { o.headers = headers }
}

// WithRequestTimeout sets the client timeout. Zero disables it and leaves
// the deadline to the caller's context.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(o *ClientOptions) { o.requestTimeout = &timeout }
}

// WithRateLimiter makes every request wait for a token first.
func WithRateLimiter(l *ratelimit.Limiter) ClientOption {
	return func(o *ClientOptions) { o.limiter = l }
}

// WithRoundTripper replaces the pooled transport. It is still wrapped by
// otelhttp.
func WithRoundTripper(rt http.RoundTripper) ClientOption {
	return func(o *ClientOptions) { o.roundTripper = rt }
}

// WithMeterProvider records request metrics on mp instead of the global
// provider.
func WithMeterProvider(mp metric.MeterProvider) ClientOption {
	return func(o *ClientOptions) { o.meterProvider = mp }
}

// WithTracer sets the tracer for request spans.
func WithTracer(tracer trace.Tracer) ClientOption {
	return func(o *ClientOptions) { o.tracer = tracer }
}

// WithResponseBodyTracing attaches the first 4KiB of every response body to
// the request span.
func WithResponseBodyTracing() ClientOption {
	return func(o *ClientOptions) { o.logResponse = true }
}

// RequestOptions holds per-request configuration.
type RequestOptions struct {
	responseErrorHandler ResponseErrorHandler
	labels               []*Label
	maskedHeaders        []string
	traceHeaders         bool
}

// RequestOption configures a single request.
type RequestOption func(*RequestOptions)

// NewRequestOptions applies opts in order.
func NewRequestOptions(opts ...RequestOption) *RequestOptions {
	options := &RequestOptions{labels: make([]*Label, 0)}
	for _, o := range opts {
		o(options)
	}
	return options
}

// ResponseErrorHandler turns a response into an error, or nil to accept it.
type ResponseErrorHandler func(statusCode int, body []byte) error

// StatusErrorHandler rejects every non-2xx response with a *StatusError.
func StatusErrorHandler(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return &StatusError{StatusCode: statusCode, Body: truncate(body, 256)}
}

// WithResponseErrorHandler sets the handler that classifies responses.
func WithResponseErrorHandler(handler ResponseErrorHandler) RequestOption {
	return func(o *RequestOptions) { o.responseErrorHandler = handler }
}

// Label is an extra metric attribute.
type Label struct {
	Key   string
	Value string
}

func NewLabel(key, value string) *Label {
	return &Label{Key: key, Value: value}
}

// WithLabels adds attributes to the request metrics.
func WithLabels(labels ...*Label) RequestOption {
	return func(o *RequestOptions) { o.labels = labels }
}

// WithHeaderTracing records the request headers as a span event. Values of
// the masked headers are replaced with asterisks.
func WithHeaderTracing(masked ...string) RequestOption {
	return func(o *RequestOptions) {
		o.traceHeaders = true
		o.maskedHeaders = masked
	}
}
