package restapi

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/fd1az/swap-explorer/business/explorer/app"
	"github.com/fd1az/swap-explorer/business/explorer/domain"
	quoting "github.com/fd1az/swap-explorer/business/quoting/domain"
	tokens "github.com/fd1az/swap-explorer/business/tokens/domain"
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

type fakeQuerier struct {
	got app.QueryInput
	out *app.Outcome
	err error
}

func (f *fakeQuerier) Run(ctx context.Context, in app.QueryInput) (*app.Outcome, error) {
	f.got = in
	return f.out, f.err
}

type fakeCatalog struct {
	tokens map[string]tokens.TokenInfo
	err    error
}

func (f *fakeCatalog) Resolve(ctx context.Context, address string) (tokens.TokenInfo, error) {
	if f.err != nil {
		return tokens.TokenInfo{}, f.err
	}
	t, ok := f.tokens[address]
	if !ok {
		return tokens.TokenInfo{}, apperror.NotFound(apperror.CodeTokenNotFound, address)
	}
	return t, nil
}

func (f *fakeCatalog) FindBySymbol(ctx context.Context, symbol string) ([]tokens.TokenInfo, error) {
	var out []tokens.TokenInfo
	for _, t := range f.tokens {
		if t.Symbol == symbol {
			out = append(out, t)
		}
	}
	return out, f.err
}

func (f *fakeCatalog) Refresh(ctx context.Context) (int, error) {
	return len(f.tokens), f.err
}

var (
	solInfo  = tokens.TokenInfo{Address: asset.MintSOL, Symbol: "SOL", Decimals: 9}
	bonkInfo = tokens.TokenInfo{Address: asset.MintBONK, Symbol: "Bonk", Decimals: 5}
)

func newTestRouter(q Querier, c TokenCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(q, c, decimal.RequireFromString("0.5"), &mockLogger{})
	return NewRouter(h, RouterConfig{
		Health: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	}, &mockLogger{})
}

func serve(router http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func sampleOutcome(t *testing.T) *app.Outcome {
	t.Helper()

	req, err := quoting.NewQuoteRequest(asset.MintBONK, asset.MintSOL, big.NewInt(100000000), 1)
	require.NoError(t, err)

	rate, err := asset.PriceFromAmounts(
		asset.NewAmount(asset.BONK, big.NewInt(100000000)),
		asset.NewAmount(asset.SOL, big.NewInt(500000000)),
	)
	require.NoError(t, err)

	return &app.Outcome{
		Request:     req,
		InputToken:  bonkInfo,
		OutputToken: solInfo,
		Evaluation:  quoting.EvaluationResult{AlarmTriggered: true},
		Rows:        []quoting.DisplayRow{{DexLabels: "Orca", OutputAmountHuman: "0.5", PriceImpactText: "1.00%", PathText: "Addr→Addr"}},
		BestRate:    rate,
	}
}

func TestGetRoutes(t *testing.T) {
	q := &fakeQuerier{out: sampleOutcome(t)}
	router := newTestRouter(q, &fakeCatalog{})

	rec := serve(router, http.MethodGet, "/api/v1/routes?mint="+asset.MintBONK+"&amount=1000&threshold=0.7")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, domain.TokenToReference, q.got.Mode)
	assert.Equal(t, asset.MintBONK, q.got.TokenMint)
	assert.Equal(t, "1000", q.got.Amount)
	assert.Equal(t, "0.7", q.got.Threshold.String())

	var body RoutesResponse
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "token_to_reference", body.Mode)
	assert.Equal(t, "100000000", body.Request.Amount)
	assert.True(t, body.AlarmTriggered)
	assert.Equal(t, "1 Bonk = 0.0005 SOL", body.BestRate)
	require.Len(t, body.Routes, 1)
	assert.Equal(t, "Orca", body.Routes[0].DexLabels)
	assert.Equal(t, "Addr→Addr", body.Routes[0].PathText)
}

func TestGetRoutes_Defaults(t *testing.T) {
	q := &fakeQuerier{out: sampleOutcome(t)}
	router := newTestRouter(q, &fakeCatalog{})

	rec := serve(router, http.MethodGet, "/api/v1/routes?mode=reference_to_token&mint="+asset.MintBONK)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ReferenceToToken, q.got.Mode)
	assert.Equal(t, "1", q.got.Amount)
	assert.Equal(t, "0.5", q.got.Threshold.String())
}

func TestGetRoutes_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		err      error
		wantCode int
		wantErr  apperror.Code
	}{
		{"bad mode", "/api/v1/routes?mode=x&mint=m", nil, http.StatusBadRequest, apperror.CodeInvalidMode},
		{"missing mint", "/api/v1/routes", nil, http.StatusBadRequest, apperror.CodeInvalidInput},
		{"bad threshold", "/api/v1/routes?mint=m&threshold=abc", nil, http.StatusBadRequest, apperror.CodeInvalidThreshold},
		{"no route", "/api/v1/routes?mint=m", apperror.New(apperror.CodeNoRouteFound), http.StatusNotFound, apperror.CodeNoRouteFound},
		{"token not found", "/api/v1/routes?mint=m", apperror.New(apperror.CodeTokenNotFound), http.StatusNotFound, apperror.CodeTokenNotFound},
		{"invalid amount", "/api/v1/routes?mint=m&amount=0", apperror.New(apperror.CodeInvalidAmount), http.StatusBadRequest, apperror.CodeInvalidAmount},
		{"quote failed", "/api/v1/routes?mint=m", apperror.External(apperror.CodeQuoteFetchFailed, "jupiter", errors.New("x")), http.StatusBadGateway, apperror.CodeQuoteFetchFailed},
		{"catalog down", "/api/v1/routes?mint=m", apperror.External(apperror.CodeCatalogUnavailable, "jupiter", errors.New("x")), http.StatusServiceUnavailable, apperror.CodeCatalogUnavailable},
		{"unexpected", "/api/v1/routes?mint=m", errors.New("boom"), http.StatusInternalServerError, apperror.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeQuerier{err: tt.err}, &fakeCatalog{})

			rec := serve(router, http.MethodGet, tt.target)
			assert.Equal(t, tt.wantCode, rec.Code)

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, string(tt.wantErr), body.Error.Code)
		})
	}
}

func TestTokenEndpoints(t *testing.T) {
	catalog := &fakeCatalog{tokens: map[string]tokens.TokenInfo{solInfo.Address: solInfo, bonkInfo.Address: bonkInfo}}
	router := newTestRouter(&fakeQuerier{}, catalog)

	rec := serve(router, http.MethodGet, "/api/v1/tokens/"+asset.MintSOL)
	require.Equal(t, http.StatusOK, rec.Code)
	var info tokens.TokenInfo
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, solInfo, info)

	rec = serve(router, http.MethodGet, "/api/v1/tokens/"+asset.MintUSDC)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodGet, "/api/v1/tokens?symbol=Bonk")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), asset.MintBONK)

	rec = serve(router, http.MethodGet, "/api/v1/tokens")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPost, "/api/v1/tokens/refresh")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tokens":2}`, rec.Body.String())
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(&fakeQuerier{}, &fakeCatalog{})
	for _, path := range []string{"/health", "/ready", "/live"} {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, path).Code, path)
	}
}

func TestGetRoutes_ErrorCarriesTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	h := NewHandler(&fakeQuerier{err: errors.New("boom")}, &fakeCatalog{}, decimal.RequireFromString("0.5"), &mockLogger{})
	router := NewRouter(h, RouterConfig{Tracer: tp.Tracer("test")}, &mockLogger{})

	rec := serve(router, http.MethodGet, "/api/v1/routes?mint=m")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Error struct {
			TraceID string `json:"traceId"`
		} `json:"error"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &body))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/routes", spans[0].Name())
	assert.Equal(t, spans[0].SpanContext().TraceID().String(), body.Error.TraceID)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestGetRoutes_ErrorWithoutTracingOmitsTraceID(t *testing.T) {
	router := newTestRouter(&fakeQuerier{err: apperror.New(apperror.CodeNoRouteFound)}, &fakeCatalog{})

	rec := serve(router, http.MethodGet, "/api/v1/routes?mint=m")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "traceId")
}
