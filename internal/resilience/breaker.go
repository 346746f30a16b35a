// Package resilience guards calls to external providers.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
)

// BreakerConfig configures a Breaker
type BreakerConfig struct {
	Name string
	// FailureThreshold is the number of consecutive failures that opens the circuit
	FailureThreshold uint32
	// Timeout is how long the circuit stays open before probing again
	Timeout time.Duration
	// Interval clears failure counts while closed; zero never clears
	Interval time.Duration
	// MaxRequests is the number of probes allowed while half-open
	MaxRequests uint32
}

// DefaultBreakerConfig returns the settings used for text generation
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		Interval:         time.Minute,
		MaxRequests:      1,
	}
}

// Breaker is a circuit breaker for calls returning text
type Breaker struct {
	cb *gobreaker.CircuitBreaker[string]
}

// NewBreaker creates a Breaker
func NewBreaker(cfg BreakerConfig) *Breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A caller that gave up says nothing about the provider
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("component", "resilience").Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker[string](settings)}
}

// Execute runs fn unless the circuit is open. A rejected call is an
// upstream error.
func (b *Breaker) Execute(fn func() (string, error)) (string, error) {
	out, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", apperrors.Upstream("text generation temporarily unavailable", err)
	}
	return out, err
}

// State returns the current circuit state name
func (b *Breaker) State() string {
	return b.cb.State().String()
}
