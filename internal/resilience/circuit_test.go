package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transientErr() error {
	return Transient(eris.New("provider overloaded"))
}

func TestCircuit_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitConfig{FailureThreshold: 3, ResetTimeout: time.Minute})
	ctx := context.Background()

	for range 3 {
		_ = cb.Execute(ctx, func(ctx context.Context) error { return transientErr() })
	}

	assert.Equal(t, CircuitOpen, cb.State())

	err := cb.Execute(ctx, func(ctx context.Context) error {
		t.Fatal("call should have been rejected")
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuit_NonTransientErrorsDoNotCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitConfig{FailureThreshold: 2, ResetTimeout: time.Minute})
	ctx := context.Background()

	for range 5 {
		_ = cb.Execute(ctx, func(ctx context.Context) error { return eris.New("bad request") })
	}

	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuit_SuccessResetsCounter(t *testing.T) {
	cb := NewCircuitBreaker(CircuitConfig{FailureThreshold: 2, ResetTimeout: time.Minute})
	ctx := context.Background()

	_ = cb.Execute(ctx, func(ctx context.Context) error { return transientErr() })
	_ = cb.Execute(ctx, func(ctx context.Context) error { return nil })
	_ = cb.Execute(ctx, func(ctx context.Context) error { return transientErr() })

	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuit_HalfOpenProbe(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(CircuitConfig{FailureThreshold: 1, ResetTimeout: 30 * time.Second}).
		WithNow(func() time.Time { return now })
	ctx := context.Background()

	_ = cb.Execute(ctx, func(ctx context.Context) error { return transientErr() })
	require.Equal(t, CircuitOpen, cb.State())

	// After the reset timeout a probe is allowed.
	now = now.Add(31 * time.Second)
	require.Equal(t, CircuitHalfOpen, cb.State())

	// A failing probe reopens immediately.
	_ = cb.Execute(ctx, func(ctx context.Context) error { return transientErr() })
	assert.Equal(t, CircuitOpen, cb.State())

	// A successful probe closes the circuit.
	now = now.Add(31 * time.Second)
	err := cb.Execute(ctx, func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestExecuteVal_PropagatesValue(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitConfig())

	got, err := ExecuteVal(context.Background(), cb, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(Transient(eris.New("anything"))))
	assert.True(t, IsTransient(eris.New("got 429 from api")))
	assert.True(t, IsTransient(eris.New("rate limit exceeded")))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.False(t, IsTransient(eris.New("invalid api key")))
	// Wrapping preserves classification.
	assert.True(t, IsTransient(eris.Wrap(Transient(eris.New("reset")), "outer")))
}
