package monolith

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/swap-explorer/internal/config"
	"github.com/fd1az/swap-explorer/internal/di"
	"github.com/fd1az/swap-explorer/internal/logger"
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

type recordingModule struct {
	name  string
	order *[]string
}

func (m *recordingModule) RegisterServices(c di.Container) error {
	c.Register(m.name, m.name)
	return nil
}

func (m *recordingModule) Startup(ctx context.Context, mono Monolith) error {
	*m.order = append(*m.order, m.name)
	name := m.name
	mono.OnClose(func() error {
		*m.order = append(*m.order, "close:"+name)
		if name == "b" {
			return errors.New("b failed to close")
		}
		return nil
	})
	return nil
}

func TestMonolith_ModuleLifecycle(t *testing.T) {
	mono, err := New(&config.Config{}, &mockLogger{})
	require.NoError(t, err)

	var order []string
	modules := []Module{&recordingModule{"a", &order}, &recordingModule{"b", &order}}

	require.NoError(t, mono.RegisterModules(modules...))
	require.NoError(t, mono.StartModules(context.Background(), modules...))

	assert.Equal(t, "a", mono.Services().Get("a"))
	_, isLogger := mono.Services().Get("logger").(logger.LoggerInterface)
	assert.True(t, isLogger)

	err = mono.Close()
	assert.EqualError(t, err, "b failed to close")
	assert.Equal(t, []string{"a", "b", "close:b", "close:a"}, order)
}
