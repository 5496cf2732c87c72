// go_video: YouTube data-access MCP server.
//
// Exposes the YouTube Data API v3 through a cached, deduplicated, retrying
// facade: video_list, video_get, video_search, channel_get, playlist_get,
// playlist_items, comments_list, plus cache_clear and provider_* admin tools.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_video/internal/engine"
	"github.com/anatolykoptev/go_video/internal/engine/ytapi"
	"github.com/anatolykoptev/go_video/internal/settings"
	"github.com/anatolykoptev/go_video/internal/videoserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	ctx := context.Background()
	cfg := loadConfig()

	slog.Info("starting go_video",
		slog.String("port", mcpPort),
		slog.String("api_base", cfg.APIBaseURL),
	)

	cache := engine.NewCache(
		engine.WithRedis(engine.ConnectRedis(ctx, cfg.RedisURL)),
		engine.WithDefaultTTL(cfg.ListTTL),
	)

	opts := []ytapi.Option{ytapi.WithCache(cache)}

	store, err := settings.Open(ctx, env.Str("DATABASE_URL", ""), env.Str("SETTINGS_DB", ""))
	var gate *settings.ProviderGate
	if err != nil {
		slog.Warn("settings store unavailable, provider admin disabled", slog.Any("error", err))
	} else {
		gate, err = settings.NewProviderGate(ctx, store, ytapi.Provider, cfg.APIKey)
		if err != nil {
			store.Close()
			slog.Error("load provider settings", slog.Any("error", err))
			os.Exit(1)
		}
		defer store.Close()
		opts = append(opts, ytapi.WithGate(gate), ytapi.WithAPIKeyFunc(gate.APIKey))
	}

	yt, err := ytapi.New(cfg, opts...)
	if err != nil {
		slog.Error("ytapi init failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("youtube provider", slog.String("state", yt.GateState(ctx).String()))

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_video",
		Version: version,
	}, nil)

	var admin videoserver.Admin
	if gate != nil {
		// Any provider change invalidates results fetched under the old policy.
		gate.OnChange(func(ctx context.Context, st engine.GateState) {
			n := yt.ClearCache(ctx, "")
			slog.Info("provider settings changed", slog.String("state", st.String()), slog.Int("purged", n))
		})
		admin = gate
	}
	n := videoserver.RegisterTools(server, yt, admin)
	slog.Info("tools registered", slog.Int("count", n))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_video",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func loadConfig() engine.Config {
	return engine.Config{
		APIBaseURL:     env.Str("YOUTUBE_API_BASE", engine.DefaultAPIBaseURL),
		APIKey:         env.Str("YOUTUBE_API_KEY", ""),
		Region:         env.Str("YOUTUBE_REGION", engine.DefaultRegion),
		PageSize:       env.Int("YOUTUBE_PAGE_SIZE", engine.DefaultPageSize),
		FetchTimeout:   env.Duration("FETCH_TIMEOUT", 10*time.Second),
		Retries:        env.Int("RETRY_MAX", 3),
		RetryBaseDelay: env.Duration("RETRY_BASE_DELAY", 500*time.Millisecond),
		RateLimitRPS:   env.Float("RATE_LIMIT_RPS", 10),
		RateLimitBurst: env.Int("RATE_LIMIT_BURST", 5),
		ListTTL:        env.Duration("CACHE_TTL_LIST", 5*time.Minute),
		VideoTTL:       env.Duration("CACHE_TTL_VIDEO", 10*time.Minute),
		ChannelTTL:     env.Duration("CACHE_TTL_CHANNEL", 30*time.Minute),
		PlaylistTTL:    env.Duration("CACHE_TTL_PLAYLIST", 15*time.Minute),
		CommentsTTL:    env.Duration("CACHE_TTL_COMMENTS", 2*time.Minute),
		RedisURL:       env.Str("REDIS_URL", ""),
	}
}
