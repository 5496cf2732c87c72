package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	APIBaseURL     string
	APIKey         string
	Region         string
	PageSize       int
	FetchTimeout   time.Duration
	Retries        int
	RetryBaseDelay time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	ListTTL        time.Duration // videos chart, search, playlist items
	VideoTTL       time.Duration
	ChannelTTL     time.Duration
	PlaylistTTL    time.Duration
	CommentsTTL    time.Duration
	RedisURL       string
	HTTPClient     *http.Client // nil = built from the fields above
}

// Defaults used when a Config field is left zero.
const (
	DefaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"
	DefaultRegion     = "US"
	DefaultPageSize   = 25
	MaxPageSize       = 50
)

// WithDefaults returns a copy of c with zero fields filled in.
func (c Config) WithDefaults() Config {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.PageSize > MaxPageSize {
		c.PageSize = MaxPageSize
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultRetryConfig.Timeout
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = DefaultRetryConfig.BaseDelay
	}
	if c.ListTTL <= 0 {
		c.ListTTL = 5 * time.Minute
	}
	if c.VideoTTL <= 0 {
		c.VideoTTL = 10 * time.Minute
	}
	if c.ChannelTTL <= 0 {
		c.ChannelTTL = 30 * time.Minute
	}
	if c.PlaylistTTL <= 0 {
		c.PlaylistTTL = 15 * time.Minute
	}
	if c.CommentsTTL <= 0 {
		c.CommentsTTL = 2 * time.Minute
	}
	return c
}

// RetryConfig derives the per-call retry settings.
func (c Config) RetryConfig() RetryConfig {
	return RetryConfig{
		Retries:   c.Retries,
		BaseDelay: c.RetryBaseDelay,
		Timeout:   c.FetchTimeout,
	}
}
