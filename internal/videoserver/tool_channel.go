package videoserver

import (
	"context"

	"github.com/anatolykoptev/go_video/internal/engine/ytapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ChannelGetInput is the input of channel_get.
type ChannelGetInput struct {
	ID string `json:"id" jsonschema:"Channel id (UC...) or @handle"`
}

func registerChannelGet(server *mcp.Server, yt *ytapi.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "channel_get",
		Description: "Get a YouTube channel by id or @handle: title, description, country, subscriber/video/view counts and the uploads playlist id (use with playlist_items).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ChannelGetInput) (*mcp.CallToolResult, ItemOutput[ytapi.Channel], error) {
		res, err := yt.GetChannel(ctx, input.ID)
		return itemResult(res, err)
	})
}
