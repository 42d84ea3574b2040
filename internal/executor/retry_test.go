package executor

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"holdings-api/internal/mapper"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("communications link failure")

func isFlaky(err error) bool { return errors.Is(err, errFlaky) }

func fastRetry() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		IsRetryable:   isFlaky,
	}
}

type flakyExecutor struct {
	Executor
	failures int
	calls    int
	err      error
}

func (f *flakyExecutor) fail() error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func (f *flakyExecutor) Query(ctx context.Context, query string, params mapper.StorageParams) (mapper.RawRows, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return mapper.Positional{Columns: []string{"one"}, Rows: [][]any{{1}}}, nil
}

func (f *flakyExecutor) Exec(ctx context.Context, query string, params mapper.StorageParams) (Result, error) {
	return Result{}, f.fail()
}

func (f *flakyExecutor) ServerTime(ctx context.Context) (string, error) {
	if err := f.fail(); err != nil {
		return "", err
	}
	return "2024-01-01 00:00:00", nil
}

func (f *flakyExecutor) Ping(ctx context.Context) error { return f.fail() }

func (f *flakyExecutor) Driver() string { return DriverDataAPI }

func quiet() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessOnSecondAttempt", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fastRetry(), func(ctx context.Context) error {
			attempts++
			if attempts == 1 {
				return errFlaky
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("NonRetryable", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fastRetry(), func(ctx context.Context) error {
			attempts++
			return errors.New("syntax error")
		})
		assert.EqualError(t, err, "syntax error")
		assert.Equal(t, 1, attempts)
	})

	t.Run("ExhaustsAttempts", func(t *testing.T) {
		attempts := 0
		err := WithRetry(ctx, fastRetry(), func(ctx context.Context) error {
			attempts++
			return errFlaky
		})
		assert.ErrorIs(t, err, errFlaky)
		assert.Equal(t, 3, attempts)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := WithRetry(cancelled, fastRetry(), func(ctx context.Context) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCalculateDelay(t *testing.T) {
	cfg := &RetryConfig{InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, BackoffFactor: 2}
	assert.Equal(t, 100*time.Millisecond, cfg.calculateDelay(1))
	assert.Equal(t, 200*time.Millisecond, cfg.calculateDelay(2))
	assert.Equal(t, 300*time.Millisecond, cfg.calculateDelay(3))

	cfg.JitterEnabled = true
	d := cfg.calculateDelay(1)
	assert.GreaterOrEqual(t, d, 100*time.Millisecond)
	assert.LessOrEqual(t, d, 110*time.Millisecond)
}

func TestRetryingExecutor(t *testing.T) {
	ctx := context.Background()
	inner := &flakyExecutor{failures: 2, err: errFlaky}
	exec := NewRetrying(inner, fastRetry(), quiet())

	rows, err := exec.Query(ctx, "SELECT 1", nil)
	require.NoError(t, err)
	assert.Len(t, mapper.NormalizeRows(rows), 1)
	assert.Equal(t, 3, inner.calls)

	inner.calls = 0
	now, err := exec.ServerTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 00:00:00", now)

	inner.calls = 0
	require.NoError(t, exec.Ping(ctx))

	inner.calls = 0
	_, err = exec.Exec(ctx, "INSERT", nil)
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, inner.calls)

	assert.Equal(t, DriverDataAPI, exec.Driver())
}

func TestNewRetryingDisabled(t *testing.T) {
	inner := &flakyExecutor{}
	assert.Same(t, Executor(inner), NewRetrying(inner, nil, nil))

	single := fastRetry()
	single.MaxAttempts = 1
	assert.Same(t, Executor(inner), NewRetrying(inner, single, nil))
}
