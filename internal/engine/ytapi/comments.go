package ytapi

import (
	"context"

	"google.golang.org/api/youtube/v3"
)

// ListComments returns top-level comment threads of a video. Comment bodies
// are converted from the upstream HTML to markdown and plain text.
func (c *Client) ListComments(ctx context.Context, p CommentParams) (Result[CommentPage], error) {
	empty := CommentPage{Items: []Comment{}}
	q, err := p.query(c.cfg)
	if err != nil {
		return Result[CommentPage]{Data: empty}, err
	}
	r := request{endpoint: endpointCommentThreads, query: q, ttl: c.cfg.CommentsTTL}
	return call(ctx, c, r, empty, func(w *youtube.CommentThreadListResponse) (CommentPage, error) {
		return toCommentPage(w), nil
	})
}
