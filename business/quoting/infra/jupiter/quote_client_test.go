package jupiter

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/swap-explorer/business/quoting/domain"
	"github.com/fd1az/swap-explorer/internal/apperror"
	"github.com/fd1az/swap-explorer/internal/asset"
)

// mockLogger implements logger.LoggerInterface for testing.
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

func newTestClient(t *testing.T, handler http.HandlerFunc) *QuoteClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewQuoteClient(Config{BaseURL: server.URL}, &mockLogger{})
	require.NoError(t, err)
	return client
}

func testRequest(t *testing.T) domain.QuoteRequest {
	t.Helper()

	req, err := domain.NewQuoteRequest(asset.MintUSDC, asset.MintSOL, big.NewInt(100000000), domain.DefaultSlippage)
	require.NoError(t, err)
	return req
}

func TestQuoteClient_SendsAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "swap-explorer", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client, err := NewQuoteClient(Config{BaseURL: server.URL, APIKey: "secret"}, &mockLogger{})
	require.NoError(t, err)

	routes, err := client.FetchRoutes(context.Background(), testRequest(t))
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestQuoteClient_OmitsEmptyAPIKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["X-Api-Key"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	_, err := client.FetchRoutes(context.Background(), testRequest(t))
	require.NoError(t, err)
}

func TestQuoteClient_FetchRoutes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, asset.MintUSDC, q.Get("inputMint"))
		assert.Equal(t, asset.MintSOL, q.Get("outputMint"))
		assert.Equal(t, "100000000", q.Get("amount"))
		assert.Equal(t, "1", q.Get("slippage"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"outAmount":"500000000","priceImpactPct":"0.01","marketInfos":[{"label":"Orca","inputMint":"AddrIn","outputMint":"AddrOut"}]},
			{"outAmount":499000000,"priceImpactPct":0.0125,"marketInfos":[
				{"label":"Raydium","inputMint":"A","outputMint":"B"},
				{"label":"Meteora","inputMint":"B","outputMint":"C"}]}
		]}`))
	})

	routes, err := client.FetchRoutes(context.Background(), testRequest(t))
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, "500000000", routes[0].OutAmount.String())
	assert.Equal(t, "0.01", routes[0].PriceImpact.String())
	assert.Equal(t, []domain.Hop{{Label: "Orca", InputMint: "AddrIn", OutputMint: "AddrOut"}}, routes[0].Hops)

	assert.Equal(t, "499000000", routes[1].OutAmount.String(), "numeric fields decode too")
	assert.Equal(t, "0.0125", routes[1].PriceImpact.String())
	assert.Equal(t, []string{"Raydium", "Meteora"}, routes[1].Labels())
}

func TestQuoteClient_EmptyData(t *testing.T) {
	for _, body := range []string{`{"data":[]}`, `{}`, `{"data":null}`} {
		t.Run(body, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			routes, err := client.FetchRoutes(context.Background(), testRequest(t))
			require.NoError(t, err)
			assert.NotNil(t, routes)
			assert.Empty(t, routes)
		})
	}
}

func TestQuoteClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"bad request", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"Could not find any route"}`, http.StatusBadRequest)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":[{"outAmount":`))
		}},
		{"non numeric amount", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":[{"outAmount":"lots","priceImpactPct":"0"}]}`))
		}},
		{"negative amount", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":[{"outAmount":"-1","priceImpactPct":"0"}]}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			routes, err := client.FetchRoutes(context.Background(), testRequest(t))
			assert.Nil(t, routes)
			assert.Equal(t, apperror.CodeQuoteFetchFailed, apperror.GetCode(err))
		})
	}
}

func TestQuoteClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewQuoteClient(Config{BaseURL: url}, &mockLogger{})
	require.NoError(t, err)

	_, err = client.FetchRoutes(context.Background(), testRequest(t))
	assert.Equal(t, apperror.CodeQuoteFetchFailed, apperror.GetCode(err))
}

func TestQuoteClient_OpenBreakerIsStillQuoteFailure(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, _ = client.FetchRoutes(context.Background(), testRequest(t))
	}
	_, err := client.FetchRoutes(context.Background(), testRequest(t))

	assert.Equal(t, apperror.CodeQuoteFetchFailed, apperror.GetCode(err))
	assert.Contains(t, err.Error(), "circuit open")
	assert.Equal(t, int32(5), hits.Load())
}
