package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of an upstream body is read.
const maxBodyBytes = 8 << 20

// NewHTTPClient builds the upstream client: pooled transport, optionally
// throttled to rps requests per second.
func NewHTTPClient(rps float64, burst int) *http.Client {
	var rt http.RoundTripper = &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     60 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if rps > 0 {
		rt = NewRateLimitedTransport(rt, rps, burst)
	}
	return &http.Client{Transport: rt}
}

// RateLimitedTransport waits for a limiter token before each round trip.
type RateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// NewRateLimitedTransport wraps base with a token bucket of rps and burst.
func NewRateLimitedTransport(base http.RoundTripper, rps float64, burst int) *RateLimitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedTransport{base: base, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// Fetcher performs single GET attempts against a base URL, threading every
// request through the interceptor chain. Retrying is the caller's concern.
type Fetcher struct {
	baseURL *url.URL
	client  *http.Client
	chain   *Chain
}

// NewFetcher creates a Fetcher for the provided base URL.
func NewFetcher(baseURL string, client *http.Client, chain *Chain) (*Fetcher, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("fetcher: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("fetcher: invalid base URL: %w", err)
	}
	if client == nil {
		client = NewHTTPClient(0, 0)
	}
	if chain == nil {
		chain = NewChain()
	}
	return &Fetcher{baseURL: parsed, client: client, chain: chain}, nil
}

// BuildURL resolves endpoint against the base URL and attaches q.
func (f *Fetcher) BuildURL(endpoint string, q url.Values) (string, error) {
	ref, err := url.Parse(strings.TrimLeft(endpoint, "/"))
	if err != nil {
		return "", err
	}
	if len(q) > 0 {
		ref.RawQuery = q.Encode()
	}
	return f.baseURL.ResolveReference(ref).String(), nil
}

// GetJSON performs one GET and decodes a 2xx JSON body into out.
// Failures are *APIError (non-2xx) or *NetworkError (transport), after the
// error interceptors have seen them.
func (f *Fetcher) GetJSON(ctx context.Context, endpoint string, q url.Values, out any) error {
	chain := f.chain.Snapshot()
	if err := f.getJSON(ctx, chain, endpoint, q, out); err != nil {
		IncrUpstreamErrors()
		return chain.Error(err)
	}
	return nil
}

func (f *Fetcher) getJSON(ctx context.Context, chain ChainSnapshot, endpoint string, q url.Values, out any) error {
	fullURL, err := f.BuildURL(endpoint, q)
	if err != nil {
		return &ValidationError{Field: "endpoint", Reason: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	req, err = chain.Request(req)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return classifyTransportError(req, err)
	}
	orig := resp.Body
	defer orig.Close()

	resp, err = chain.Response(resp)
	if err != nil {
		return err
	}
	if resp.Body != nil && resp.Body != orig {
		defer resp.Body.Close()
	}

	if resp.StatusCode >= 400 {
		return newAPIError(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return classifyTransportError(req, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header.Clone(),
	}
	if isJSON(resp.Header.Get("Content-Type")) && len(body) > 0 {
		var payload any
		if json.Unmarshal(body, &payload) == nil {
			apiErr.JSON = payload
		}
	}
	return apiErr
}

// classifyTransportError turns a client.Do failure into a NetworkError. The
// URL is recorded without its query so API keys never reach logs.
func classifyTransportError(req *http.Request, err error) *NetworkError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	timeout := errors.Is(err, context.DeadlineExceeded)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		timeout = true
	}
	redacted := *req.URL
	redacted.RawQuery = ""
	return &NetworkError{Op: req.Method, URL: redacted.String(), Timeout: timeout, Err: err}
}

func isJSON(contentType string) bool {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType) == "application/json"
}
