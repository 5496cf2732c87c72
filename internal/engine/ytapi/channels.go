package ytapi

import (
	"context"

	"github.com/anatolykoptev/go_video/internal/engine"
	"google.golang.org/api/youtube/v3"
)

// GetChannel looks up a channel by id (UC...) or @handle.
func (c *Client) GetChannel(ctx context.Context, id string) (Result[Channel], error) {
	q, err := singleQuery("channel_id", id, "snippet,statistics,contentDetails")
	if err != nil {
		return Result[Channel]{}, err
	}
	ref := q.Get("id")
	if ref == "" {
		ref = q.Get("forHandle")
	}
	r := request{endpoint: endpointChannels, query: q, ttl: c.cfg.ChannelTTL, single: true}
	return call(ctx, c, r, Channel{}, func(w *youtube.ChannelListResponse) (Channel, error) {
		if len(w.Items) == 0 || w.Items[0] == nil {
			return Channel{}, &engine.NotFoundError{Resource: "channel", ID: ref}
		}
		return toChannel(w.Items[0]), nil
	})
}
