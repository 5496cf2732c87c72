// Package ytapi is the unified data-access facade over the YouTube Data API v3.
//
// Every operation follows the same path: feature gate, canonical signature,
// cache lookup, then on a miss a deduplicated, retried, interceptor-wrapped
// GET whose mapped result is cached with a per-endpoint TTL.
package ytapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/anatolykoptev/go_video/internal/engine"
)

// Provider is the name reported in DisabledError and logs.
const Provider = "youtube"

// Client owns its cache, dedup table and interceptor chain. Construct one per
// process (or per test) and pass it to callers.
type Client struct {
	cfg     engine.Config
	cache   *engine.Cache
	dedup   *engine.Deduplicator
	chain   *engine.Chain
	fetcher *engine.Fetcher
	gate    Gate
	keyFn   func() string

	httpClient       *http.Client
	skipInterceptors bool
}

// Option configures a Client.
type Option func(*Client)

// WithGate overrides the default gate (NotConfigured without an API key).
func WithGate(g Gate) Option {
	return func(c *Client) {
		if g != nil {
			c.gate = g
		}
	}
}

// WithCache shares an existing cache, e.g. one backed by Redis.
func WithCache(cache *engine.Cache) Option {
	return func(c *Client) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithHTTPClient overrides the upstream HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithAPIKeyFunc supplies the API key per request instead of Config.APIKey.
func WithAPIKeyFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.keyFn = fn
		}
	}
}

// WithoutDefaultInterceptors starts with an empty chain.
func WithoutDefaultInterceptors() Option {
	return func(c *Client) { c.skipInterceptors = true }
}

// New creates a Client. Zero Config fields take engine defaults.
func New(cfg engine.Config, opts ...Option) (*Client, error) {
	cfg = cfg.WithDefaults()
	key := cfg.APIKey
	c := &Client{
		cfg:   cfg,
		dedup: engine.NewDeduplicator(),
		chain: engine.NewChain(),
		keyFn: func() string { return key },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = engine.NewCache(engine.WithDefaultTTL(cfg.ListTTL))
	}
	if c.gate == nil {
		c.gate = keyGate(c.keyFn)
	}
	if c.httpClient == nil {
		c.httpClient = cfg.HTTPClient
	}
	if c.httpClient == nil {
		c.httpClient = engine.NewHTTPClient(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if !c.skipInterceptors {
		c.chain.AddRequest(engine.APIKeyInterceptor(c.keyFn))
		c.chain.AddRequest(engine.UserAgentInterceptor())
		c.chain.AddError(engine.LogErrorInterceptor())
	}

	f, err := engine.NewFetcher(cfg.APIBaseURL, c.httpClient, c.chain)
	if err != nil {
		return nil, err
	}
	c.fetcher = f
	return c, nil
}

// Interceptors exposes the chain for registration.
func (c *Client) Interceptors() *engine.Chain { return c.chain }

// Cache exposes the client's cache.
func (c *Client) Cache() *engine.Cache { return c.cache }

// Config returns the effective configuration.
func (c *Client) Config() engine.Config { return c.cfg }

// GateState reports the current gate decision.
func (c *Client) GateState(ctx context.Context) engine.GateState { return c.gate.State(ctx) }

// ClearCache purges cached results whose signature matches pattern
// (all of them when pattern is empty). Returns the number of entries removed.
func (c *Client) ClearCache(ctx context.Context, pattern string) int {
	n := c.cache.Invalidate(ctx, pattern)
	slog.Info("ytapi: cache cleared", slog.String("pattern", pattern), slog.Int("removed", n))
	return n
}

// request describes one facade call.
type request struct {
	endpoint string
	query    url.Values
	ttl      time.Duration
	single   bool // single-entity lookup: a closed gate is an error
}

// signature keeps single lookups apart from list calls that happen to send
// the same query, since the cached shapes differ.
func (r request) signature() string {
	if r.single {
		return Signature(r.endpoint+".get", r.query)
	}
	return Signature(r.endpoint, r.query)
}

// call runs the gate/cache/dedup/retry pipeline. W is the wire type decoded
// from the response; convert maps it to the cached domain value T. empty is
// returned as Data when a list call is blocked by the gate.
func call[W any, T any](ctx context.Context, c *Client, r request, empty T, convert func(*W) (T, error)) (Result[T], error) {
	engine.IncrFacadeRequests()

	if st := c.gate.State(ctx); st != engine.GateEnabled {
		engine.IncrGateBlocked()
		slog.Debug("ytapi: gate closed", slog.String("endpoint", r.endpoint), slog.String("state", st.String()))
		res := Result[T]{State: st, Data: empty}
		if r.single {
			return res, &engine.DisabledError{Provider: Provider, State: st}
		}
		return res, nil
	}

	key := r.signature()
	if v, ok := engine.CacheLoadJSON[T](ctx, c.cache, key); ok {
		engine.RecordCacheLookup(true)
		return Result[T]{State: engine.GateEnabled, Data: v}, nil
	}
	engine.RecordCacheLookup(false)

	v, err := engine.Dedup(ctx, c.dedup, key, func(ctx context.Context) (T, error) {
		var zero T
		var wire *W
		gen := c.cache.Generation()
		err := engine.TrackOperation(ctx, r.endpoint, func(ctx context.Context) error {
			var err error
			wire, err = engine.RetryDo(ctx, c.cfg.RetryConfig(), func(ctx context.Context) (*W, error) {
				w := new(W)
				if err := c.fetcher.GetJSON(ctx, r.endpoint, r.query, w); err != nil {
					return nil, err
				}
				return w, nil
			})
			return err
		})
		if err != nil {
			return zero, err
		}
		out, err := convert(wire)
		if err != nil {
			return zero, err
		}
		// A ClearCache during the fetch wins; the caller still gets out.
		engine.CacheStoreJSON(ctx, c.cache, gen, key, out, r.ttl)
		return out, nil
	})
	if err != nil {
		return Result[T]{State: engine.GateEnabled, Data: empty}, err
	}
	return Result[T]{State: engine.GateEnabled, Data: v}, nil
}
