package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sillysavant/f1nance/pkg/logger"
)

func init() {
	logger.Init("test", "test")
}

func fastConfig(retryable func(error) bool) Config {
	cfg := DefaultConfig()
	cfg.MaxRetries = 2
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	cfg.Jitter = false
	if retryable != nil {
		cfg.RetryableErrors = retryable
	}
	return cfg
}

func TestDoWithResult_SucceedsAfterRetry(t *testing.T) {
	attempts := 0
	result, err := DoWithResult(context.Background(), fastConfig(nil), "test_op", func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 2, attempts)
}

func TestDoWithResult_ExhaustsRetries(t *testing.T) {
	attempts := 0
	transient := errors.New("transient")
	_, err := DoWithResult(context.Background(), fastConfig(nil), "test_op", func() (string, error) {
		attempts++
		return "", transient
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts) // initial attempt plus two retries
	assert.ErrorIs(t, err, transient)
}

func TestDoWithResult_NonRetryableFailsFast(t *testing.T) {
	permanent := errors.New("permanent")
	attempts := 0
	_, err := DoWithResult(context.Background(), fastConfig(func(err error) bool {
		return !errors.Is(err, permanent)
	}), "test_op", func() (string, error) {
		attempts++
		return "", permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
}

func TestDoWithResult_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DoWithResult(ctx, fastConfig(nil), "test_op", func() (string, error) {
		return "", errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_WrapsDoWithResult(t *testing.T) {
	called := false
	err := Do(context.Background(), fastConfig(nil), "test_op", func() error {
		called = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
}

func TestCalculateDelay_IsCapped(t *testing.T) {
	cfg := fastConfig(nil)
	delay := calculateDelay(10, cfg)
	assert.LessOrEqual(t, delay, cfg.MaxDelay)
}
