package videoserver

import (
	"context"

	"github.com/anatolykoptev/go_video/internal/engine/ytapi"
	"github.com/anatolykoptev/go_video/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// VideoListInput is the input of video_list.
type VideoListInput struct {
	IDs        string `json:"ids,omitempty" jsonschema:"Comma-separated video ids. When empty, the most popular chart is returned"`
	Region     string `json:"region,omitempty" jsonschema:"ISO 3166-1 alpha-2 region for the chart (e.g. US, DE, JP)"`
	CategoryID string `json:"category_id,omitempty" jsonschema:"Video category id to filter the chart (e.g. 10 music, 20 gaming, 28 science & technology)"`
	PageSize   int    `json:"page_size,omitempty" jsonschema:"Results per page, 1-50"`
	PageToken  string `json:"page_token,omitempty" jsonschema:"next_page_token from a previous call"`
}

// VideoGetInput is the input of video_get.
type VideoGetInput struct {
	ID string `json:"id" jsonschema:"Video id (the v= part of a watch URL)"`
}

func registerVideoList(server *mcp.Server, yt *ytapi.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_list",
		Description: "List YouTube videos by id, or the most popular videos in a region. Returns title, channel, duration, view/like/comment counts and thumbnail. Paged via page_token.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input VideoListInput) (*mcp.CallToolResult, ListOutput[ytapi.Video], error) {
		res, err := yt.ListVideos(ctx, ytapi.VideoListParams{
			IDs:        toolutil.SplitIDs(input.IDs),
			Region:     input.Region,
			CategoryID: input.CategoryID,
			PageSize:   input.PageSize,
			PageToken:  input.PageToken,
		})
		p := res.Data
		return listResult(res.State, err, p.Items, p.NextPageToken, p.PrevPageToken, p.TotalResults)
	})
}

func registerVideoGet(server *mcp.Server, yt *ytapi.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_get",
		Description: "Get one YouTube video by id with full description, tags, duration and statistics. Status not_found when the id does not exist.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input VideoGetInput) (*mcp.CallToolResult, ItemOutput[ytapi.Video], error) {
		res, err := yt.GetVideo(ctx, input.ID)
		return itemResult(res, err)
	})
}
