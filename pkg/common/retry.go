package common

import (
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/git-hulk/redmine-go/pkg/logger"
)

// TransientStatus reports whether a response status is worth retrying:
// rate limiting (429) and server-side failures (5xx).
func TransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// RetryTransient runs op with exponential backoff until it succeeds, fails
// permanently, or maxRetries retry attempts have been consumed. Each retry
// is logged with the wait interval that precedes it.
func RetryTransient(ctx context.Context, maxRetries uint64, op backoff.Operation) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 10 * time.Second

	return backoff.RetryNotify(op,
		backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx),
		func(err error, wait time.Duration) {
			logger.Get().Warn("retrying request after transient failure",
				zap.Error(err), zap.Duration("backoff", wait))
		})
}
