package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestShouldRetry(t *testing.T) {
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	assert.False(t, ShouldRetry(nil))
	assert.False(t, ShouldRetry(errors.New("boom")))
	assert.False(t, ShouldRetry(context.Canceled))
	assert.True(t, ShouldRetry(timeoutErr{}))
	assert.True(t, ShouldRetry(dial))
	assert.True(t, ShouldRetry(&url.Error{Op: "Get", URL: "http://x", Err: dial}))
	assert.True(t, ShouldRetry(fmt.Errorf("wrapped: %w", dial)))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, "", Classify(nil))
	assert.Equal(t, "timeout", Classify(fmt.Errorf("get: %w", context.DeadlineExceeded)))
	assert.Equal(t, "canceled", Classify(context.Canceled))
	assert.Equal(t, "dns", Classify(&net.DNSError{Err: "no such host", Name: "api.quotable.io"}))
	assert.Equal(t, "dial", Classify(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.Equal(t, "timeout", Classify(&url.Error{Op: "Get", URL: "http://x", Err: timeoutErr{}}))
	assert.Equal(t, "unknown", Classify(errors.New("boom")))
}

func TestStatusKind(t *testing.T) {
	assert.Equal(t, "", StatusKind(200))
	assert.Equal(t, "http_4xx", StatusKind(404))
	assert.Equal(t, "http_429", StatusKind(429))
	assert.Equal(t, "http_5xx", StatusKind(502))
}
