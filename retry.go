package filecache

import (
	"context"
	"errors"

	retry "github.com/avast/retry-go/v4"
)

// withRetry re-runs fn while it fails with ErrLockContended, waiting a fixed
// delay between attempts up to the configured count, then surfaces the last
// failure. Any other error propagates immediately. Cancellation is honored
// before the first file access and during every delay via ctx.
func (c *cache) withRetry(ctx context.Context, op string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ErrLockContended)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.hooks.LockContended(c.path, n+1)
			c.log.Debug("shared file contended; retrying",
				Fields{"op": op, "attempt": n + 1, "path": c.path})
		}),
	)
}
