package videoserver

import (
	"context"

	"github.com/anatolykoptev/go_video/internal/engine/ytapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PlaylistGetInput is the input of playlist_get.
type PlaylistGetInput struct {
	ID string `json:"id" jsonschema:"Playlist id (the list= part of a playlist URL)"`
}

// PlaylistItemsInput is the input of playlist_items.
type PlaylistItemsInput struct {
	PlaylistID string `json:"playlist_id" jsonschema:"Playlist id, or a channel's uploads playlist id from channel_get"`
	PageSize   int    `json:"page_size,omitempty" jsonschema:"Results per page, 1-50"`
	PageToken  string `json:"page_token,omitempty" jsonschema:"next_page_token from a previous call"`
}

func registerPlaylistGet(server *mcp.Server, yt *ytapi.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "playlist_get",
		Description: "Get YouTube playlist metadata by id: title, owner channel, item count.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input PlaylistGetInput) (*mcp.CallToolResult, ItemOutput[ytapi.Playlist], error) {
		res, err := yt.GetPlaylist(ctx, input.ID)
		return itemResult(res, err)
	})
}

func registerPlaylistItems(server *mcp.Server, yt *ytapi.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "playlist_items",
		Description: "List the videos of a YouTube playlist in order, with position, video id and URL. Paged via page_token.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input PlaylistItemsInput) (*mcp.CallToolResult, ListOutput[ytapi.PlaylistItem], error) {
		res, err := yt.ListPlaylistItems(ctx, ytapi.PlaylistItemsParams{
			PlaylistID: input.PlaylistID,
			PageSize:   input.PageSize,
			PageToken:  input.PageToken,
		})
		p := res.Data
		return listResult(res.State, err, p.Items, p.NextPageToken, p.PrevPageToken, p.TotalResults)
	})
}
