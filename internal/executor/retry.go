package executor

import (
	"context"
	"math"
	"math/rand"
	"time"

	"holdings-api/internal/mapper"

	"github.com/sirupsen/logrus"
)

// RetryConfig configures retries of read statements
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterEnabled bool
	// IsRetryable classifies driver errors; nil retries nothing
	IsRetryable func(error) bool
}

// DefaultRetryConfig returns the retry settings used for every driver
func DefaultRetryConfig(isRetryable func(error) bool) *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
		IsRetryable:   isRetryable,
	}
}

// WithRetry runs op until it succeeds, fails with a non-retryable error, or
// runs out of attempts.
func WithRetry(ctx context.Context, config *RetryConfig, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt >= config.MaxAttempts || config.IsRetryable == nil || !config.IsRetryable(err) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(config.calculateDelay(attempt)):
		}
	}

	return lastErr
}

// calculateDelay is initial_delay * backoff_factor^(attempt-1), capped at
// MaxDelay, plus up to 10% jitter.
func (c *RetryConfig) calculateDelay(attempt int) time.Duration {
	delay := float64(c.InitialDelay) * math.Pow(c.BackoffFactor, float64(attempt-1))
	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	if c.JitterEnabled {
		delay += rand.Float64() * 0.1 * delay
	}
	return time.Duration(delay)
}

// retrying wraps an executor and retries reads. Exec is passed through: an
// insert that timed out may still have been applied.
type retrying struct {
	Executor
	config *RetryConfig
	logger *logrus.Logger
}

// NewRetrying wraps exec so that Query, ServerTime and Ping are retried per
// config. A config with fewer than two attempts returns exec unchanged.
func NewRetrying(exec Executor, config *RetryConfig, logger *logrus.Logger) Executor {
	if config == nil || config.MaxAttempts < 2 {
		return exec
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &retrying{Executor: exec, config: config, logger: logger}
}

func (r *retrying) Query(ctx context.Context, query string, params mapper.StorageParams) (mapper.RawRows, error) {
	var rows mapper.RawRows
	err := r.retry(ctx, "query", func(ctx context.Context) error {
		var err error
		rows, err = r.Executor.Query(ctx, query, params)
		return err
	})
	return rows, err
}

func (r *retrying) ServerTime(ctx context.Context) (string, error) {
	var now string
	err := r.retry(ctx, "server_time", func(ctx context.Context) error {
		var err error
		now, err = r.Executor.ServerTime(ctx)
		return err
	})
	return now, err
}

func (r *retrying) Ping(ctx context.Context) error {
	return r.retry(ctx, "ping", r.Executor.Ping)
}

func (r *retrying) retry(ctx context.Context, operation string, op func(ctx context.Context) error) error {
	attempt := 0
	return WithRetry(ctx, r.config, func(ctx context.Context) error {
		attempt++
		err := op(ctx)
		if err != nil && attempt < r.config.MaxAttempts && r.config.IsRetryable != nil && r.config.IsRetryable(err) {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"operation": operation,
				"attempt":   attempt,
				"driver":    r.Driver(),
			}).Warn("Retrying statement")
		}
		return err
	})
}
