package netutil

import (
	"net"
	"net/http"
	"time"
)

// ClientOptions tunes NewHTTPClient. Zero values fall back to defaults.
type ClientOptions struct {
	// Timeout bounds a whole request including retries.
	Timeout         time.Duration
	DialTimeout     time.Duration
	ResponseTimeout time.Duration
	// Retries is the number of extra attempts for transient dial/timeout errors.
	Retries int
	Backoff time.Duration
}

const (
	defaultClientTimeout   = 30 * time.Second
	defaultDialTimeout     = 5 * time.Second
	defaultResponseTimeout = 5 * time.Second
	defaultKeepAlive       = 30 * time.Second
	defaultIdleConnTimeout = 30 * time.Second
	defaultTLSHandshake    = 5 * time.Second
)

// NewHTTPClient returns a pooled client with bounded timeouts and optional
// retries of transient transport failures.
func NewHTTPClient(opts ClientOptions) *http.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultClientTimeout
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.ResponseTimeout <= 0 {
		opts.ResponseTimeout = defaultResponseTimeout
	}

	var rt http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: opts.DialTimeout, KeepAlive: defaultKeepAlive}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ResponseHeaderTimeout: opts.ResponseTimeout,
		ExpectContinueTimeout: time.Second,
	}
	if opts.Retries > 0 {
		rt = &RetryTransport{Base: rt, MaxRetries: opts.Retries, Backoff: opts.Backoff}
	}
	return &http.Client{Timeout: opts.Timeout, Transport: rt}
}

// RetryTransport replays requests that failed with a retryable transport
// error. Requests with a body are only replayed when GetBody is set.
type RetryTransport struct {
	Base       http.RoundTripper
	MaxRetries int
	Backoff    time.Duration
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	var lastErr error
	for attempt := 0; attempt <= t.MaxRetries; attempt++ {
		cur := req
		if attempt > 0 {
			cur = req.Clone(req.Context())
			switch {
			case req.GetBody != nil:
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				cur.Body = body
			case req.Body != nil && req.Body != http.NoBody:
				return nil, lastErr
			}
		}

		resp, err := base.RoundTrip(cur)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !ShouldRetry(err) || attempt == t.MaxRetries {
			break
		}

		delay := t.Backoff * time.Duration(attempt+1)
		if delay <= 0 {
			continue
		}
		timer := time.NewTimer(delay)
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}
