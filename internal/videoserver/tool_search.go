package videoserver

import (
	"context"

	"github.com/anatolykoptev/go_video/internal/engine/ytapi"
	"github.com/anatolykoptev/go_video/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// VideoSearchInput is the input of video_search.
type VideoSearchInput struct {
	Query      string `json:"query" jsonschema:"Search keywords (e.g. golang concurrency tutorial)"`
	Type       string `json:"type,omitempty" jsonschema:"Result type: video (default), channel, playlist"`
	Order      string `json:"order,omitempty" jsonschema:"Sort order: relevance (default), date, rating, title, videoCount, viewCount"`
	Region     string `json:"region,omitempty" jsonschema:"ISO 3166-1 alpha-2 region code (e.g. US, GB)"`
	Language   string `json:"language,omitempty" jsonschema:"Preferred result language, ISO 639-1 (e.g. en, ru) or all"`
	ChannelID  string `json:"channel_id,omitempty" jsonschema:"Restrict results to one channel id"`
	SafeSearch string `json:"safe_search,omitempty" jsonschema:"moderate (default), none, strict"`
	PageSize   int    `json:"page_size,omitempty" jsonschema:"Results per page, 1-50"`
	PageToken  string `json:"page_token,omitempty" jsonschema:"next_page_token from a previous call"`
}

func registerVideoSearch(server *mcp.Server, yt *ytapi.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_search",
		Description: "Search YouTube for videos, channels or playlists. Returns kind, id, URL, title, channel and publish date per hit. Equivalent queries are served from cache.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input VideoSearchInput) (*mcp.CallToolResult, ListOutput[ytapi.SearchHit], error) {
		res, err := yt.Search(ctx, ytapi.SearchParams{
			Query:      input.Query,
			Type:       input.Type,
			Order:      input.Order,
			Region:     input.Region,
			Language:   toolutil.NormLang(input.Language),
			ChannelID:  input.ChannelID,
			SafeSearch: input.SafeSearch,
			PageSize:   input.PageSize,
			PageToken:  input.PageToken,
		})
		p := res.Data
		return listResult(res.State, err, p.Items, p.NextPageToken, p.PrevPageToken, p.TotalResults)
	})
}
