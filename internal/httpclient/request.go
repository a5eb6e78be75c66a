package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/swap-explorer/internal/ratelimit"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Request is the interface for building and executing HTTP requests.
type Request interface {
	Get(ctx context.Context, path string) (*Response, error)

	SetHeader(key, value string) Request
	SetQueryParam(key, value string) Request
	SetResult(result any) Request
}

// Response wraps http.Response with additional helpers.
type Response struct {
	*http.Response
	body   []byte
	result any
}

// Body returns the response body as bytes.
func (r *Response) Body() []byte {
	return r.body
}

// String returns the response body as string.
func (r *Response) String() string {
	return string(r.body)
}

// IsError returns true if the status code indicates an error (>= 400).
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Result returns the unmarshaled result.
func (r *Response) Result() any {
	return r.result
}

// requestBuilder implements Request.
type requestBuilder struct {
	client          *http.Client
	requestCounter  metric.Int64Counter
	requestDuration metric.Float64Histogram
	limiter         *ratelimit.Limiter
	providerName    string
	tracer          trace.Tracer
	baseURL         string
	headers         map[string]string
	query           url.Values
	result          any
	errorHandler    ResponseErrorHandler
	labels          []*Label
	maskedHeaders   []string
	traceHeaders    bool
	logResponse     bool
}

// Get executes a GET request.
func (r *requestBuilder) Get(ctx context.Context, path string) (*Response, error) {
	return r.execute(ctx, http.MethodGet, path)
}

// SetHeader sets a single header.
func (r *requestBuilder) SetHeader(key, value string) Request {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

// SetQueryParam sets a single query parameter. Values are escaped.
func (r *requestBuilder) SetQueryParam(key, value string) Request {
	if r.query == nil {
		r.query = make(url.Values)
	}
	r.query.Set(key, value)
	return r
}

// SetResult sets the target for JSON decoding of a successful body.
func (r *requestBuilder) SetResult(result any) Request {
	r.result = result
	return r
}

func (r *requestBuilder) buildURL(path string) (string, error) {
	full := path
	if r.baseURL != "" && !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		full = strings.TrimSuffix(r.baseURL, "/")
		if path != "" {
			full += "/" + strings.TrimPrefix(path, "/")
		}
	}

	u, err := url.Parse(full)
	if err != nil {
		return "", err
	}
	if len(r.query) > 0 {
		q := u.Query()
		for k, vs := range r.query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// execute performs the HTTP request with instrumentation.
func (r *requestBuilder) execute(ctx context.Context, method, path string) (*Response, error) {
	fullURL, err := r.buildURL(path)
	if err != nil {
		return nil, fmt.Errorf("failed to build url: %w", err)
	}

	ctx, span := r.tracer.Start(ctx, "http.request",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", fullURL),
			attribute.String("provider", r.providerName),
		),
	)
	defer span.End()

	if err := r.limiter.Wait(ctx); err != nil {
		r.recordError(ctx, span, err, 0)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	if r.traceHeaders {
		r.traceRequestHeaders(span, req.Header)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		r.recordError(ctx, span, err, time.Since(start))
		return nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	elapsed := time.Since(start)
	if err != nil {
		r.recordError(ctx, span, err, elapsed)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if r.logResponse {
		span.AddEvent("response.body", trace.WithAttributes(
			attribute.String("http.response_body", truncate(respBody, 4096)),
		))
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	response := &Response{
		Response: resp,
		body:     respBody,
	}

	if r.errorHandler != nil {
		if handlerErr := r.errorHandler(resp.StatusCode, respBody); handlerErr != nil {
			r.recordMetrics(ctx, false, elapsed)
			span.SetStatus(codes.Error, handlerErr.Error())
			return response, handlerErr
		}
	}

	if r.result != nil && !response.IsError() {
		if err := json.Unmarshal(respBody, r.result); err != nil {
			r.recordMetrics(ctx, false, elapsed)
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to decode body")
			return response, fmt.Errorf("%w: %v", ErrDecodeResult, err)
		}
		response.result = r.result
	}

	r.recordMetrics(ctx, !response.IsError(), elapsed)
	return response, nil
}

// recordError logs network errors to the span.
func (r *requestBuilder) recordError(ctx context.Context, span trace.Span, err error, elapsed time.Duration) {
	span.RecordError(err)

	var netErr net.Error
	if errors.Is(err, context.Canceled) {
		span.SetAttributes(attribute.Bool("context.cancelled", true))
	}
	if errors.As(err, &netErr) && netErr.Timeout() {
		span.SetAttributes(attribute.Bool("request.timeout", true))
	}

	span.SetStatus(codes.Error, err.Error())
	r.recordMetrics(ctx, false, elapsed)
}

// recordMetrics increments the request counter and records latency.
func (r *requestBuilder) recordMetrics(ctx context.Context, success bool, elapsed time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("provider", r.providerName),
		attribute.Bool("success", success),
	}
	for _, label := range r.labels {
		attrs = append(attrs, attribute.String(label.Key, label.Value))
	}

	opt := metric.WithAttributes(attrs...)
	r.requestCounter.Add(ctx, 1, opt)
	if elapsed > 0 {
		r.requestDuration.Record(ctx, float64(elapsed.Microseconds())/1000.0, opt)
	}
}

// traceRequestHeaders adds the request headers to the span, masking
// secrets.
func (r *requestBuilder) traceRequestHeaders(span trace.Span, headers http.Header) {
	masked := make(map[string]bool, len(r.maskedHeaders))
	for _, h := range r.maskedHeaders {
		masked[strings.ToLower(h)] = true
	}

	attrs := make([]attribute.KeyValue, 0, len(headers))
	for k, values := range headers {
		key := strings.ToLower(k)
		headerKey := fmt.Sprintf("http.request.header.%s", key)
		headerVal := ""
		if len(values) > 0 {
			headerVal = values[0]
		}

		if masked[key] {
			attrs = append(attrs, attribute.String(headerKey, "*****"))
		} else {
			attrs = append(attrs, attribute.String(headerKey, headerVal))
		}
	}

	if len(attrs) > 0 {
		span.AddEvent("request.headers", trace.WithAttributes(attrs...))
	}
}
