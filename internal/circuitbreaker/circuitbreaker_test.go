package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultConfig("jupiter-quote")
	cfg.ConsecutiveFailures = 2
	cfg.Timeout = time.Hour

	var transitions []gobreaker.State
	cfg.OnStateChange = func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	}
	cb := New[int](cfg)

	upstream := errors.New("502 bad gateway")
	calls := 0
	fail := func() (int, error) {
		calls++
		return 0, upstream
	}

	_, err := cb.Execute(fail)
	require.ErrorIs(t, err, upstream)
	_, err = cb.Execute(fail)
	require.ErrorIs(t, err, upstream)

	_, err = cb.Execute(fail)
	require.Error(t, err)
	assert.True(t, IsOpen(err))
	assert.Equal(t, 2, calls, "open breaker must not call upstream")
	assert.Equal(t, gobreaker.StateOpen, cb.State())
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)
}

func TestCircuitBreaker_PassesResults(t *testing.T) {
	cb := New[string](DefaultConfig("catalog"))

	got, err := cb.Execute(func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, "catalog", cb.Name())
	assert.False(t, IsOpen(errors.New("other")))
}
