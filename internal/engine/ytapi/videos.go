package ytapi

import (
	"context"

	"github.com/anatolykoptev/go_video/internal/engine"
	"google.golang.org/api/youtube/v3"
)

// ListVideos returns a page of videos by id or from the most-popular chart.
// With the gate closed it returns an empty page and the gate state.
func (c *Client) ListVideos(ctx context.Context, p VideoListParams) (Result[VideoPage], error) {
	empty := VideoPage{Items: []Video{}}
	q, err := p.query(c.cfg)
	if err != nil {
		return Result[VideoPage]{Data: empty}, err
	}
	r := request{endpoint: endpointVideos, query: q, ttl: c.cfg.ListTTL}
	return call(ctx, c, r, empty, func(w *youtube.VideoListResponse) (VideoPage, error) {
		return toVideoPage(w), nil
	})
}

// GetVideo looks up one video by id.
func (c *Client) GetVideo(ctx context.Context, id string) (Result[Video], error) {
	q, err := singleQuery("video_id", id, "snippet,statistics,contentDetails")
	if err != nil {
		return Result[Video]{}, err
	}
	r := request{endpoint: endpointVideos, query: q, ttl: c.cfg.VideoTTL, single: true}
	return call(ctx, c, r, Video{}, func(w *youtube.VideoListResponse) (Video, error) {
		if len(w.Items) == 0 || w.Items[0] == nil {
			return Video{}, &engine.NotFoundError{Resource: "video", ID: q.Get("id")}
		}
		return toVideo(w.Items[0]), nil
	})
}
