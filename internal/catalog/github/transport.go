package github

import (
	"errors"
	"net/http"
	"time"
)

const defaultRetryMax = 2

// retryTransport retries replayable requests (GET/HEAD without a body) after
// transport errors, rate limiting and gateway failures. Other requests get a
// single attempt. A plain 500 is not retried.
type retryTransport struct {
	base     http.RoundTripper
	retryMax int
	backoff  time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	limit := max(t.retryMax, 0)
	if !canRetry {
		limit = 0
	}

	var (
		resp    *http.Response
		lastErr error
	)
	for attempt := 0; attempt <= limit; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(t.backoff * time.Duration(attempt))
			select {
			case <-req.Context().Done():
				timer.Stop()
				if lastErr == nil {
					lastErr = req.Context().Err()
				}
				return nil, lastErr
			case <-timer.C:
			}
		}

		resp, lastErr = base.RoundTrip(req.Clone(req.Context()))
		if lastErr == nil {
			if !retryableStatus(resp.StatusCode) || attempt == limit {
				return resp, nil
			}
			resp.Body.Close()
			continue
		}
		if req.Context().Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// NewHTTPClient builds the client used for catalog calls: an overall timeout
// per attempt and at most retryMax retries for idempotent requests.
func NewHTTPClient(timeout time.Duration, retryMax int) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       90 * time.Second,
	}
	return &http.Client{
		Transport: &retryTransport{base: base, retryMax: retryMax, backoff: 500 * time.Millisecond},
		Timeout:   timeout * time.Duration(max(retryMax, 0)+1),
	}
}
