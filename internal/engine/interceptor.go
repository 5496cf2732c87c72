package engine

import (
	"log/slog"
	"net/http"
	"sync"

	stealth "github.com/anatolykoptev/go-stealth"
)

// RequestInterceptor may rewrite an outbound request before dispatch.
type RequestInterceptor func(req *http.Request) (*http.Request, error)

// ResponseInterceptor may inspect or replace a response before status checks and decoding.
type ResponseInterceptor func(resp *http.Response) (*http.Response, error)

// ErrorInterceptor may log or normalize a failed attempt's error.
type ErrorInterceptor func(err error) error

// Chain holds ordered interceptor lists. Registration is safe while calls are
// in flight; each call works on the snapshot taken when it started.
type Chain struct {
	mu        sync.RWMutex
	requests  []RequestInterceptor
	responses []ResponseInterceptor
	errs      []ErrorInterceptor
}

// NewChain returns an empty Chain.
func NewChain() *Chain {
	return &Chain{}
}

// AddRequest appends a request interceptor.
func (c *Chain) AddRequest(fn RequestInterceptor) {
	c.mu.Lock()
	c.requests = append(c.requests, fn)
	c.mu.Unlock()
}

// AddResponse appends a response interceptor.
func (c *Chain) AddResponse(fn ResponseInterceptor) {
	c.mu.Lock()
	c.responses = append(c.responses, fn)
	c.mu.Unlock()
}

// AddError appends an error interceptor.
func (c *Chain) AddError(fn ErrorInterceptor) {
	c.mu.Lock()
	c.errs = append(c.errs, fn)
	c.mu.Unlock()
}

// Snapshot copies the current lists for a single call.
func (c *Chain) Snapshot() ChainSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ChainSnapshot{
		requests:  append([]RequestInterceptor(nil), c.requests...),
		responses: append([]ResponseInterceptor(nil), c.responses...),
		errs:      append([]ErrorInterceptor(nil), c.errs...),
	}
}

// ChainSnapshot is an immutable view of a Chain.
type ChainSnapshot struct {
	requests  []RequestInterceptor
	responses []ResponseInterceptor
	errs      []ErrorInterceptor
}

// Request runs request interceptors in registration order.
func (s ChainSnapshot) Request(req *http.Request) (*http.Request, error) {
	for _, fn := range s.requests {
		next, err := fn(req)
		if err != nil {
			return nil, err
		}
		if next != nil {
			req = next
		}
	}
	return req, nil
}

// Response runs response interceptors in registration order.
func (s ChainSnapshot) Response(resp *http.Response) (*http.Response, error) {
	for _, fn := range s.responses {
		next, err := fn(resp)
		if err != nil {
			return nil, err
		}
		if next != nil {
			resp = next
		}
	}
	return resp, nil
}

// Error runs error interceptors in registration order. An interceptor that
// returns nil does not clear the failure; the previous error is kept.
func (s ChainSnapshot) Error(err error) error {
	for _, fn := range s.errs {
		if next := fn(err); next != nil {
			err = next
		}
	}
	return err
}

// APIKeyInterceptor appends key=<key> to the query unless a key is already present.
// keyFn is consulted per request so key rotation takes effect without a restart.
func APIKeyInterceptor(keyFn func() string) RequestInterceptor {
	return func(req *http.Request) (*http.Request, error) {
		q := req.URL.Query()
		if q.Get("key") != "" {
			return req, nil
		}
		key := keyFn()
		if key == "" {
			return req, nil
		}
		q.Set("key", key)
		req.URL.RawQuery = q.Encode()
		return req, nil
	}
}

// UserAgentInterceptor sets a rotating browser User-Agent when none is set.
func UserAgentInterceptor() RequestInterceptor {
	return func(req *http.Request) (*http.Request, error) {
		if req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", stealth.RandomUserAgent())
		}
		return req, nil
	}
}

// LogErrorInterceptor logs every failed attempt and returns the error unchanged.
func LogErrorInterceptor() ErrorInterceptor {
	return func(err error) error {
		slog.Warn("upstream call failed", slog.Int("status", StatusCode(err)), slog.Any("error", err))
		return err
	}
}
