package videoserver

import (
	"context"

	"github.com/anatolykoptev/go_video/internal/engine/ytapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CommentsListInput is the input of comments_list.
type CommentsListInput struct {
	VideoID   string `json:"video_id" jsonschema:"Video id whose top-level comments to list"`
	Order     string `json:"order,omitempty" jsonschema:"time (default, newest first) or relevance"`
	Search    string `json:"search,omitempty" jsonschema:"Only comments containing these terms"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"Results per page, 1-50"`
	PageToken string `json:"page_token,omitempty" jsonschema:"next_page_token from a previous call"`
}

func registerCommentsList(server *mcp.Server, yt *ytapi.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "comments_list",
		Description: "List top-level comments of a YouTube video with author, markdown text, like and reply counts. Paged via page_token.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CommentsListInput) (*mcp.CallToolResult, ListOutput[ytapi.Comment], error) {
		res, err := yt.ListComments(ctx, ytapi.CommentParams{
			VideoID:   input.VideoID,
			Order:     input.Order,
			Search:    input.Search,
			PageSize:  input.PageSize,
			PageToken: input.PageToken,
		})
		p := res.Data
		return listResult(res.State, err, p.Items, p.NextPageToken, "", p.TotalResults)
	})
}
