package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type pingResult struct {
	Echo string `json:"echo"`
}

func TestRequest_EscapesQueryAndDecodesResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v6/quote", r.URL.Path)
		assert.Equal(t, "a b&c", r.URL.Query().Get("q"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"echo":"` + r.URL.Query().Get("q") + `"}`))
	}))
	defer server.Close()

	client, err := NewInstrumentedClient(WithBaseURL(server.URL+"/v6"), WithProviderName("test"))
	require.NoError(t, err)

	var out pingResult
	resp, err := client.NewRequestWithOptions(WithResponseErrorHandler(StatusErrorHandler)).
		SetQueryParam("q", "a b&c").
		SetResult(&out).
		Get(context.Background(), "/quote")

	require.NoError(t, err)
	assert.False(t, resp.IsError())
	assert.Equal(t, "a b&c", out.Echo)
}

func TestRequest_StatusErrorHandler(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewInstrumentedClient(WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.NewRequestWithOptions(WithResponseErrorHandler(StatusErrorHandler)).Get(context.Background(), "/")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestRequest_DecodeFailureIsReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client, err := NewInstrumentedClient(WithBaseURL(server.URL))
	require.NoError(t, err)

	var out pingResult
	_, err = client.NewRequest().SetResult(&out).Get(context.Background(), "/")
	assert.True(t, errors.Is(err, ErrDecodeResult), "got %v", err)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestClient_RoundTripperAndDefaultHeaders(t *testing.T) {
	var seen *http.Request
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"echo":"stub"}`)),
			Request:    r,
		}, nil
	})

	client, err := NewInstrumentedClient(
		WithBaseURL("http://jupiter.invalid"),
		WithRoundTripper(rt),
		WithHeaders(map[string]string{"x-api-key": "k1", "User-Agent": "swap-explorer"}),
	)
	require.NoError(t, err)

	var out pingResult
	_, err = client.NewRequest().SetHeader("x-api-key", "k2").SetResult(&out).Get(context.Background(), "/ping")
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.Equal(t, "http://jupiter.invalid/ping", seen.URL.String())
	assert.Equal(t, "k2", seen.Header.Get("x-api-key"), "per-request header wins")
	assert.Equal(t, "swap-explorer", seen.Header.Get("User-Agent"))
	assert.Equal(t, "stub", out.Echo)

	// defaults are copied per request
	_, err = client.NewRequest().Get(context.Background(), "/ping")
	require.NoError(t, err)
	assert.Equal(t, "k1", seen.Header.Get("x-api-key"))
}

func TestClient_RecordsRequestMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	client, err := NewInstrumentedClient(WithBaseURL(server.URL), WithProviderName("test"), WithMeterProvider(mp))
	require.NoError(t, err)

	for range 2 {
		_, err = client.NewRequestWithOptions(WithLabels(NewLabel("endpoint", "ping"))).Get(context.Background(), "/")
		require.NoError(t, err)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != metricRequestCounter {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				endpoint, _ := dp.Attributes.Value(attribute.Key("endpoint"))
				assert.Equal(t, "ping", endpoint.AsString())
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), total)
}

func TestClient_TracesMaskedHeadersAndResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	client, err := NewInstrumentedClient(
		WithBaseURL(server.URL),
		WithTracer(tp.Tracer("test")),
		WithHeaders(map[string]string{"x-api-key": "secret"}),
		WithResponseBodyTracing(),
	)
	require.NoError(t, err)

	_, err = client.NewRequestWithOptions(WithHeaderTracing("X-API-KEY")).Get(context.Background(), "/quote")
	require.NoError(t, err)

	events := map[string][]attribute.KeyValue{}
	for _, span := range recorder.Ended() {
		if span.Name() != "http.request" {
			continue
		}
		for _, ev := range span.Events() {
			events[ev.Name] = ev.Attributes
		}
	}

	require.Contains(t, events, "request.headers")
	assert.Contains(t, events["request.headers"], attribute.String("http.request.header.x-api-key", "*****"))
	assert.Contains(t, events["request.headers"], attribute.String("http.request.header.accept", "application/json"))

	require.Contains(t, events, "response.body")
	assert.Contains(t, events["response.body"], attribute.String("http.response_body", `{"data":[]}`))
}
