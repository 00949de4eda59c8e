package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhas/pkg/errors"
)

func fastPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      1.5,
	}
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastPolicy(), func() error {
		attempts++
		if attempts < 2 {
			return stderrors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRetryExhaustsAttemptsOnRetryableError(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastPolicy(), func() error {
		attempts++
		return errors.ErrClassification
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)

	var appErr *errors.Error
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.IsRetryable())
}

func TestRetryStopsImmediatelyOnFatalError(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastPolicy(), func() error {
		attempts++
		return errors.ErrParse
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryStopsImmediatelyOnWrappedFatal(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastPolicy(), func() error {
		attempts++
		return NewFatalError(stderrors.New("bad payload"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryTreatsUnclassifiedErrorsAsRetryable(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastPolicy(), func() error {
		attempts++
		return stderrors.New("flaky")
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithCallbackExhaustsRetryableError(t *testing.T) {
	attempts := 0
	callbacks := 0
	err := RetryWithCallback(context.Background(), fastPolicy(), func() error {
		attempts++
		return errors.ErrClassification
	}, func(attempt int, err error, nextDelay time.Duration) {
		callbacks++
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, callbacks)
}

func TestRetryWithCallbackStopsOnFatalError(t *testing.T) {
	attempts := 0
	callbacks := 0
	err := RetryWithCallback(context.Background(), fastPolicy(), func() error {
		attempts++
		return errors.ErrParse
	}, func(attempt int, err error, nextDelay time.Duration) {
		callbacks++
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 0, callbacks)
}
