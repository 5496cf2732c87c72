package ytapi

import (
	"context"

	"github.com/anatolykoptev/go_video/internal/engine"
	"google.golang.org/api/youtube/v3"
)

// GetPlaylist looks up playlist metadata by id.
func (c *Client) GetPlaylist(ctx context.Context, id string) (Result[Playlist], error) {
	q, err := singleQuery("playlist_id", id, "snippet,contentDetails")
	if err != nil {
		return Result[Playlist]{}, err
	}
	r := request{endpoint: endpointPlaylists, query: q, ttl: c.cfg.PlaylistTTL, single: true}
	return call(ctx, c, r, Playlist{}, func(w *youtube.PlaylistListResponse) (Playlist, error) {
		if len(w.Items) == 0 || w.Items[0] == nil {
			return Playlist{}, &engine.NotFoundError{Resource: "playlist", ID: q.Get("id")}
		}
		return toPlaylist(w.Items[0]), nil
	})
}

// ListPlaylistItems pages through the entries of a playlist.
func (c *Client) ListPlaylistItems(ctx context.Context, p PlaylistItemsParams) (Result[PlaylistItemPage], error) {
	empty := PlaylistItemPage{Items: []PlaylistItem{}}
	q, err := p.query(c.cfg)
	if err != nil {
		return Result[PlaylistItemPage]{Data: empty}, err
	}
	r := request{endpoint: endpointPlaylistItems, query: q, ttl: c.cfg.ListTTL}
	return call(ctx, c, r, empty, func(w *youtube.PlaylistItemListResponse) (PlaylistItemPage, error) {
		return toPlaylistItemPage(w), nil
	})
}
