package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = &UnavailableError{Reason: "connection refused"}

func TestRetryWithBackoff_ExponentialBackoff(t *testing.T) {
	var delays []time.Duration
	cfg := RetryConfig{
		MaxRetries: 4,
		BaseDelay:  time.Millisecond,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			delays = append(delays, delay)
		},
	}

	calls := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		if calls < 5 {
			return errDown
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 5, calls)
	assert.Equal(t, []time.Duration{
		time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond, 8 * time.Millisecond,
	}, delays)
}

func TestRetryWithBackoff_MaxRetries(t *testing.T) {
	t.Run("returns error when max retries exceeded", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond}, func() error {
			calls++
			return errDown
		})

		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Contains(t, err.Error(), "max retries (2) exceeded")
		assert.True(t, IsUnavailable(err))
	})

	t.Run("zero max retries means no retries", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), RetryConfig{}, func() error {
			calls++
			return errDown
		})

		assert.Equal(t, 1, calls)
		assert.Same(t, errDown, err)
	})
}

func TestRetryWithBackoff_OnlyUnavailableIsRetried(t *testing.T) {
	rejected := &RejectedError{StatusCode: 500, Body: "boom"}
	plain := errors.New("bad prompt")

	for _, want := range []error{rejected, plain} {
		calls := 0
		err := RetryWithBackoff(context.Background(), RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}, func() error {
			calls++
			return want
		})
		assert.Equal(t, 1, calls)
		assert.Equal(t, want, err)
	}
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{
		MaxRetries: 5,
		BaseDelay:  time.Hour,
		OnRetry:    func(int, time.Duration, error) { cancel() },
	}

	start := time.Now()
	err := RetryWithBackoff(ctx, cfg, func() error { return errDown })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

type scriptedChatter struct {
	replies []string
	errs    []error
	calls   int
}

func (s *scriptedChatter) PostChat(ctx context.Context, system, user string, wantsJSON bool) (string, error) {
	i := s.calls
	s.calls++
	var reply string
	var err error
	if i < len(s.replies) {
		reply = s.replies[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return reply, err
}

func TestRetryClient(t *testing.T) {
	inner := &scriptedChatter{
		replies: []string{"", "", "hello"},
		errs:    []error{errDown, errDown, nil},
	}
	rc := &RetryClient{Inner: inner, RetryCfg: RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}}

	out, err := rc.PostChat(context.Background(), "s", "u", false)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, 3, inner.calls)
}
