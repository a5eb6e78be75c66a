package apm

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

func TestParseProvider(t *testing.T) {
	assert.Equal(t, ZipkinProvider, ParseProvider("Zipkin"))
	assert.Equal(t, OTLPHTTPProvider, ParseProvider(" otlp-http "))
	assert.Equal(t, EmptyProvider, ParseProvider("jaeger"))
	assert.Equal(t, EmptyProvider, ParseProvider(""))
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders("x-team=abc, api-key = 123 ,broken,=nokey")
	assert.Equal(t, map[string]string{"x-team": "abc", "api-key": "123"}, got)
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))

	var buf bytes.Buffer
	tp, err := NewTraceProvider(&mockLogger{}, ConsoleProvider,
		WithServiceName("apm-test"), WithConsoleWriter(&buf))
	require.NoError(t, err)

	ctx, span := otel.Tracer("apm-test").Start(context.Background(), "op")
	id := TraceID(ctx)
	span.End()

	assert.Len(t, id, 32)
	require.NoError(t, tp.Stop())
	assert.Contains(t, buf.String(), id)
}

func TestNewTraceProvider_Empty(t *testing.T) {
	tp, err := NewTraceProvider(&mockLogger{}, EmptyProvider)
	require.NoError(t, err)
	assert.NoError(t, tp.Stop())
}
