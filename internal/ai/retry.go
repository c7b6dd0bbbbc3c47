package ai

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig configures exponential backoff for unavailable endpoints.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration // default 1s
	OnRetry    func(attempt int, delay time.Duration, err error)
}

// RetryWithBackoff calls fn until it succeeds, fails with an error that is not
// an *UnavailableError, or MaxRetries retries have been spent.
// Delays: BaseDelay, BaseDelay*2, BaseDelay*4, ...
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Second
	}

	delay := cfg.BaseDelay
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsUnavailable(err) {
			return err
		}
		if attempt >= cfg.MaxRetries {
			if cfg.MaxRetries == 0 {
				return err
			}
			return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, err)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}

// RetryClient wraps a Chatter and retries calls that fail as unavailable.
type RetryClient struct {
	Inner    Chatter
	RetryCfg RetryConfig
}

// PostChat implements Chatter.
func (r *RetryClient) PostChat(ctx context.Context, system, user string, wantsJSON bool) (string, error) {
	var out string
	err := RetryWithBackoff(ctx, r.RetryCfg, func() error {
		var err error
		out, err = r.Inner.PostChat(ctx, system, user, wantsJSON)
		return err
	})
	return out, err
}
