package match

import (
	"resumescore/internal/config"
	"resumescore/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// OracleBreaker wraps similarity oracle calls with circuit breaker
// protection. A run of consecutive failures opens the breaker; the open
// duration is configured long enough that a dead oracle stays disabled for
// the remainder of the process lifetime instead of being retried per request.
type OracleBreaker struct {
	cb *gobreaker.CircuitBreaker[float64]
}

// NewOracleBreaker creates a breaker for the oracle. Returns nil when the
// breaker is disabled; a nil breaker executes calls directly.
func NewOracleBreaker(cfg config.CircuitBreakerConfig, logger *errors.Logger) *OracleBreaker {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:    "similarity-oracle",
		Timeout: cfg.OpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"max_failures", cfg.MaxFailures)
		},
	}

	return &OracleBreaker{
		cb: gobreaker.NewCircuitBreaker[float64](settings),
	}
}

// Execute runs fn with circuit breaker protection.
func (b *OracleBreaker) Execute(fn func() (float64, error)) (float64, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// GetStats returns circuit breaker statistics.
func (b *OracleBreaker) GetStats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the breaker is in closed state.
func (b *OracleBreaker) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
