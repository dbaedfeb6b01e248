package breaker

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Hour,
		FailureRatio: 0.5,
		MinRequests:  2,
	}
}

func TestBreaker_PassesThrough(t *testing.T) {
	b := New[string](testConfig("test-pass"), newTestLogger())

	got, err := b.Execute(func() (string, error) { return "ok", nil })

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_TripsAfterFailures(t *testing.T) {
	b := New[[]byte](testConfig("test-trip"), newTestLogger())
	boom := errors.New("redis: connection refused")

	for i := 0; i < 2; i++ {
		_, err := b.Execute(func() ([]byte, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	called := false
	_, err := b.Execute(func() ([]byte, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreaker_BelowMinRequestsStaysClosed(t *testing.T) {
	b := New[int](testConfig("test-min"), newTestLogger())

	_, _ = b.Execute(func() (int, error) { return 0, errors.New("boom") })

	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestStateToFloat(t *testing.T) {
	assert.Equal(t, 0.0, stateToFloat(gobreaker.StateClosed))
	assert.Equal(t, 1.0, stateToFloat(gobreaker.StateHalfOpen))
	assert.Equal(t, 2.0, stateToFloat(gobreaker.StateOpen))
}
