package reliability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerTripsAndRecovers(t *testing.T) {
	b := NewCircuitBreaker("test_trips_and_recovers", BreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 3,
		RecoveryTimeout:  20 * time.Millisecond,
	})

	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		err := b.Call(func() error { return boom })
		require.Error(t, err)
	}
	assert.Equal(t, StateOpen, b.State())

	err := b.Call(func() error { return nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)

	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Call(func() error { return nil }))
	assert.Equal(t, StateHalfOpen, b.State(), "one success is not enough with threshold 3")

	require.NoError(t, b.Call(func() error { return nil }))
	require.NoError(t, b.Call(func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	b := NewCircuitBreaker("test_half_open_reopens", BreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		RecoveryTimeout:  10 * time.Millisecond,
	})

	require.Error(t, b.Call(func() error { return errors.New("x") }))
	assert.Equal(t, StateOpen, b.State())

	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, b.State())

	require.Error(t, b.Call(func() error { return errors.New("still broken") }))
	assert.Equal(t, StateOpen, b.State())
}
