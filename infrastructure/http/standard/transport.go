// ABOUTME: Retrying http.RoundTripper with exponential backoff
// ABOUTME: Wraps the document fetcher's transport so transient upstream failures are retried

package standard

import (
	"fmt"
	"net/http"
	"time"
)

const (
	defaultMaxRetries = 3
	baseBackoff       = 100 * time.Millisecond
)

// RetryTransport retries idempotent requests that fail at the network level
// or with a 5xx status
type RetryTransport struct {
	next       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

// NewRetryTransport wraps next, or http.DefaultTransport when next is nil.
// maxRetries is the total number of attempts.
func NewRetryTransport(next http.RoundTripper, maxRetries int) *RetryTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &RetryTransport{
		next:       next,
		maxRetries: maxRetries,
		backoff:    baseBackoff,
	}
}

// RoundTrip implements http.RoundTripper
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !idempotent(req) {
		return t.next.RoundTrip(req)
	}

	var lastErr error
	for attempt := 0; attempt < t.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 100ms, 200ms, 400ms
			wait := t.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(wait):
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}

		resp, err := t.next.RoundTrip(req)
		if err != nil {
			lastErr = err
			continue
		}

		// Don't retry on success or 4xx errors, and hand back the last 5xx as is
		if resp.StatusCode < 500 || attempt == t.maxRetries-1 {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return nil, lastErr
}

func idempotent(req *http.Request) bool {
	if req.Body != nil && req.Body != http.NoBody {
		return false
	}
	switch req.Method {
	case "", http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
