package config

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DoWithBackoff sends req with client, retrying transport errors with
// jittered exponential backoff. maxRetries bounds the number of retries after
// the first attempt; zero or less retries until ctx is done.
//
// Responses are returned whatever their status code; callers decide what an
// error status means.
func DoWithBackoff(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	delay := BASE_BACKOFF
	var lastErr error

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("request to %s abandoned: %w", req.URL.Redacted(), err)
		}

		resp, err := client.Do(req.Clone(ctx))
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if maxRetries > 0 && attempt >= maxRetries {
			return nil, fmt.Errorf("max retries exceeded (%d) for %s: %w", maxRetries, req.URL.Redacted(), lastErr)
		}

		timer := time.NewTimer(time.Until(calculateNextRetryAt(delay)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("request to %s abandoned after %d attempts: %w", req.URL.Redacted(), attempt+1, ctx.Err())
		case <-timer.C:
		}
		delay = calculateNewBackoffDelay(delay)
	}
}
