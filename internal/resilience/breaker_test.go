package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker(BreakerConfig{Name: "test", FailureThreshold: 2, Timeout: time.Minute, MaxRequests: 1})
	failing := func() (string, error) { return "", errors.New("503 from provider") }

	_, err := b.Execute(failing)
	require.Error(t, err)
	_, err = b.Execute(failing)
	require.Error(t, err)
	assert.Equal(t, "open", b.State())

	called := false
	_, err = b.Execute(func() (string, error) {
		called = true
		return "ok", nil
	})
	assert.False(t, called)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestBreakerPassesResults(t *testing.T) {
	b := NewBreaker(DefaultBreakerConfig("test"))

	out, err := b.Execute(func() (string, error) { return "{}", nil })
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, "closed", b.State())
}

func TestBreakerIgnoresCanceledCallers(t *testing.T) {
	b := NewBreaker(BreakerConfig{Name: "test", FailureThreshold: 1, Timeout: time.Minute, MaxRequests: 1})

	_, err := b.Execute(func() (string, error) { return "", context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "closed", b.State())
}
