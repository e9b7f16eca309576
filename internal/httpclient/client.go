// Package httpclient builds the resty clients used for outbound requests.
package httpclient

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"ezexport/internal/config"
	"ezexport/internal/logger"
)

// New creates a resty client that retries transient failures according to policy.
func New(policy config.RetryPolicy, log *logger.Logger) *resty.Client {
	client := resty.New().
		SetTimeout(policy.GetTimeout()).
		SetRetryCount(max(policy.MaxAttempts-1, 0)).
		SetRetryWaitTime(time.Duration(policy.InitialDelayMs) * time.Millisecond).
		SetRetryMaxWaitTime(time.Duration(policy.MaxDelayMs) * time.Millisecond).
		SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
			attempt := 1
			if resp != nil && resp.Request != nil {
				attempt = resp.Request.Attempt
			}

			return policy.GetRetryDelay(attempt + 1), nil
		})

	client.AddRetryCondition(retryCondition)

	if log != nil {
		client.OnError(func(req *resty.Request, err error) {
			log.Warn("outbound request failed", "url", req.URL, "attempt", req.Attempt, "error", err)
		})
	}

	return client
}

// retryCondition retries network errors and temporary HTTP failures.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if r == nil {
		return false
	}

	return IsRetryableStatus(r.StatusCode())
}

// IsRetryableStatus determines if we should retry based on HTTP status code.
func IsRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusBadGateway,
		http.StatusTooManyRequests,
		http.StatusRequestTimeout:
		return true
	}

	return false
}
