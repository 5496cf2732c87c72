package videoserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_video/internal/engine"
	"github.com/anatolykoptev/go_video/internal/engine/ytapi"
	"github.com/anatolykoptev/go_video/internal/settings"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CacheClearInput is the input of cache_clear.
type CacheClearInput struct {
	Pattern string `json:"pattern,omitempty" jsonschema:"Regular expression matched against cache keys (endpoint:query), e.g. ^search: or videoId=abc. Empty clears everything"`
}

// CacheClearOutput reports how many entries were dropped.
type CacheClearOutput struct {
	Removed int   `json:"removed"`
	Size    int   `json:"size"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// ProviderStatusInput is the (empty) input of provider_status.
type ProviderStatusInput struct{}

// ProviderStatusOutput is the provider view plus process counters.
type ProviderStatusOutput struct {
	Provider  settings.ProviderStatus `json:"provider"`
	Settings  map[string]string       `json:"settings" jsonschema:"Persisted settings rows; API keys are shown as set"`
	CacheSize int                     `json:"cache_size"`
	Metrics   map[string]int64        `json:"metrics"`
}

// ProviderSetInput is the input of provider_set.
type ProviderSetInput struct {
	Enabled *bool   `json:"enabled,omitempty" jsonschema:"Enable or disable the YouTube provider"`
	APIKey  *string `json:"api_key,omitempty" jsonschema:"API key override; empty string falls back to YOUTUBE_API_KEY"`
}

func registerCacheClear(server *mcp.Server, yt *ytapi.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "cache_clear",
		Description: "Drop cached YouTube responses whose key matches a pattern (all when empty). Use after upstream data changed.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CacheClearInput) (*mcp.CallToolResult, CacheClearOutput, error) {
		removed := yt.ClearCache(ctx, input.Pattern)
		hits, misses := yt.Cache().Stats()
		return nil, CacheClearOutput{
			Removed: removed,
			Size:    yt.Cache().Size(),
			Hits:    hits,
			Misses:  misses,
		}, nil
	})
}

func registerProviderStatus(server *mcp.Server, yt *ytapi.Client, admin Admin) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "provider_status",
		Description: "Show whether the YouTube provider is enabled, disabled or not configured, where its API key comes from, and request/cache/retry counters.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ ProviderStatusInput) (*mcp.CallToolResult, ProviderStatusOutput, error) {
		out, err := providerStatus(ctx, yt, admin)
		return nil, out, err
	})
}

func providerStatus(ctx context.Context, yt *ytapi.Client, admin Admin) (ProviderStatusOutput, error) {
	stored, err := admin.Stored(ctx)
	if err != nil {
		return ProviderStatusOutput{}, fmt.Errorf("read settings: %w", err)
	}
	return ProviderStatusOutput{
		Provider:  admin.Status(),
		Settings:  stored,
		CacheSize: yt.Cache().Size(),
		Metrics:   engine.GetMetrics(),
	}, nil
}

func registerProviderSet(server *mcp.Server, admin Admin) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "provider_set",
		Description: "Enable/disable the YouTube provider or override its API key. Settings persist across restarts; any change clears the response cache.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ProviderSetInput) (*mcp.CallToolResult, settings.ProviderStatus, error) {
		if input.Enabled == nil && input.APIKey == nil {
			return nil, settings.ProviderStatus{}, errors.New("enabled or api_key is required")
		}
		if input.Enabled != nil {
			if err := admin.SetEnabled(ctx, *input.Enabled); err != nil {
				return nil, settings.ProviderStatus{}, err
			}
		}
		if input.APIKey != nil {
			if err := admin.SetAPIKey(ctx, *input.APIKey); err != nil {
				return nil, settings.ProviderStatus{}, err
			}
		}
		return nil, admin.Status(), nil
	})
}
