package enrichment

import (
	"context"
	"time"

	generativeAI "github.com/FACorreiaa/go-trip-itinerary/internal/api/generative_ai"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepContext is the real SleepFunc.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy retries rate-limited calls with exponential backoff. Any other
// error ends the loop immediately.
type RetryPolicy struct {
	MaxRetries  int
	BaseDelay   time.Duration
	IsRetryable func(error) bool
	Sleep       SleepFunc
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:  1,
		BaseDelay:   2 * time.Second,
		IsRetryable: generativeAI.IsRateLimited,
		Sleep:       SleepContext,
	}
}

// Backoff is BaseDelay * 2^attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(1<<attempt)
}

// Run calls op until it succeeds, fails with a non-retryable error, or the
// retries are used up. In the last case the result is a *QuotaExceededError.
func (p RetryPolicy) Run(ctx context.Context, op func(ctx context.Context) (string, error)) (string, error) {
	retryable := p.IsRetryable
	if retryable == nil {
		retryable = generativeAI.IsRateLimited
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	for attempt := 0; ; attempt++ {
		text, err := op(ctx)
		if err == nil {
			return text, nil
		}
		if !retryable(err) {
			return "", err
		}
		if attempt >= p.MaxRetries {
			return "", &QuotaExceededError{Attempts: attempt + 1, Err: err}
		}
		if sleepErr := sleep(ctx, p.Backoff(attempt)); sleepErr != nil {
			return "", sleepErr
		}
	}
}
