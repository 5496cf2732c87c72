package ytapi

import (
	"strings"

	"github.com/anatolykoptev/go_video/internal/engine"
	"google.golang.org/api/youtube/v3"
)

// listDescriptionLen caps descriptions in list results; single lookups keep them whole.
const listDescriptionLen = 300

// Video is a single video as returned by ListVideos and GetVideo.
type Video struct {
	ID           string   `json:"id"`
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	ChannelID    string   `json:"channel_id,omitempty"`
	ChannelTitle string   `json:"channel_title,omitempty"`
	PublishedAt  string   `json:"published_at,omitempty"`
	Duration     string   `json:"duration,omitempty"` // ISO 8601, e.g. PT4M13S
	Thumbnail    string   `json:"thumbnail,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	ViewCount    uint64   `json:"view_count"`
	LikeCount    uint64   `json:"like_count"`
	CommentCount uint64   `json:"comment_count"`
}

// VideoPage is one page of videos.
type VideoPage struct {
	Items         []Video `json:"items"`
	NextPageToken string  `json:"next_page_token,omitempty"`
	PrevPageToken string  `json:"prev_page_token,omitempty"`
	TotalResults  int64   `json:"total_results"`
}

// SearchHit is a search result; Kind is video, channel or playlist.
type SearchHit struct {
	Kind         string `json:"kind"`
	ID           string `json:"id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ChannelID    string `json:"channel_id,omitempty"`
	ChannelTitle string `json:"channel_title,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	Live         bool   `json:"live,omitempty"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Items         []SearchHit `json:"items"`
	NextPageToken string      `json:"next_page_token,omitempty"`
	PrevPageToken string      `json:"prev_page_token,omitempty"`
	TotalResults  int64       `json:"total_results"`
	RegionCode    string      `json:"region_code,omitempty"`
}

// Channel is a channel with its public statistics.
type Channel struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	CustomURL         string `json:"custom_url,omitempty"`
	Country           string `json:"country,omitempty"`
	PublishedAt       string `json:"published_at,omitempty"`
	Thumbnail         string `json:"thumbnail,omitempty"`
	UploadsPlaylistID string `json:"uploads_playlist_id,omitempty"`
	SubscriberCount   uint64 `json:"subscriber_count"`
	SubscribersHidden bool   `json:"subscribers_hidden,omitempty"`
	VideoCount        uint64 `json:"video_count"`
	ViewCount         uint64 `json:"view_count"`
}

// Playlist is playlist metadata; its entries come from ListPlaylistItems.
type Playlist struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ChannelID    string `json:"channel_id,omitempty"`
	ChannelTitle string `json:"channel_title,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	ItemCount    int64  `json:"item_count"`
}

// PlaylistItem is one entry of a playlist.
type PlaylistItem struct {
	ID          string `json:"id"`
	VideoID     string `json:"video_id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Position    int64  `json:"position"`
	PublishedAt string `json:"published_at,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// PlaylistItemPage is one page of playlist entries.
type PlaylistItemPage struct {
	Items         []PlaylistItem `json:"items"`
	NextPageToken string         `json:"next_page_token,omitempty"`
	PrevPageToken string         `json:"prev_page_token,omitempty"`
	TotalResults  int64          `json:"total_results"`
}

// Comment is a top-level comment thread.
type Comment struct {
	ID          string `json:"id"`
	VideoID     string `json:"video_id"`
	Author      string `json:"author"`
	Text        string `json:"text"`                 // markdown
	TextPlain   string `json:"text_plain,omitempty"` // markup stripped
	LikeCount   int64  `json:"like_count"`
	ReplyCount  int64  `json:"reply_count"`
	PublishedAt string `json:"published_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// CommentPage is one page of comment threads.
type CommentPage struct {
	Items         []Comment `json:"items"`
	NextPageToken string    `json:"next_page_token,omitempty"`
	TotalResults  int64     `json:"total_results"`
}

// --- URLs ---

func videoURL(id string) string    { return "https://www.youtube.com/watch?v=" + id }
func channelURL(id string) string  { return "https://www.youtube.com/channel/" + id }
func playlistURL(id string) string { return "https://www.youtube.com/playlist?list=" + id }

// --- wire -> domain mapping ---

func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.High, t.Medium, t.Default, t.Standard, t.Maxres} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

func totalResults(p *youtube.PageInfo) int64 {
	if p == nil {
		return 0
	}
	return p.TotalResults
}

func shorten(desc string) string {
	return engine.TruncateAtWord(strings.TrimSpace(desc), listDescriptionLen)
}

func toVideo(v *youtube.Video) Video {
	out := Video{ID: v.Id, URL: videoURL(v.Id)}
	if s := v.Snippet; s != nil {
		out.Title = s.Title
		out.Description = s.Description
		out.ChannelID = s.ChannelId
		out.ChannelTitle = s.ChannelTitle
		out.PublishedAt = s.PublishedAt
		out.Thumbnail = bestThumbnail(s.Thumbnails)
		out.Tags = s.Tags
	}
	if st := v.Statistics; st != nil {
		out.ViewCount = st.ViewCount
		out.LikeCount = st.LikeCount
		out.CommentCount = st.CommentCount
	}
	if cd := v.ContentDetails; cd != nil {
		out.Duration = cd.Duration
	}
	return out
}

func toVideoPage(r *youtube.VideoListResponse) VideoPage {
	page := VideoPage{
		Items:         make([]Video, 0, len(r.Items)),
		NextPageToken: r.NextPageToken,
		PrevPageToken: r.PrevPageToken,
		TotalResults:  totalResults(r.PageInfo),
	}
	for _, item := range r.Items {
		if item == nil || item.Id == "" {
			continue
		}
		v := toVideo(item)
		v.Description = shorten(v.Description)
		page.Items = append(page.Items, v)
	}
	return page
}

func toSearchPage(r *youtube.SearchListResponse) SearchPage {
	page := SearchPage{
		Items:         make([]SearchHit, 0, len(r.Items)),
		NextPageToken: r.NextPageToken,
		PrevPageToken: r.PrevPageToken,
		TotalResults:  totalResults(r.PageInfo),
		RegionCode:    r.RegionCode,
	}
	for _, item := range r.Items {
		if item == nil || item.Id == nil {
			continue
		}
		hit := SearchHit{}
		switch {
		case item.Id.VideoId != "":
			hit.Kind, hit.ID, hit.URL = "video", item.Id.VideoId, videoURL(item.Id.VideoId)
		case item.Id.ChannelId != "":
			hit.Kind, hit.ID, hit.URL = "channel", item.Id.ChannelId, channelURL(item.Id.ChannelId)
		case item.Id.PlaylistId != "":
			hit.Kind, hit.ID, hit.URL = "playlist", item.Id.PlaylistId, playlistURL(item.Id.PlaylistId)
		default:
			continue
		}
		if s := item.Snippet; s != nil {
			hit.Title = s.Title
			hit.Description = shorten(s.Description)
			hit.ChannelID = s.ChannelId
			hit.ChannelTitle = s.ChannelTitle
			hit.PublishedAt = s.PublishedAt
			hit.Thumbnail = bestThumbnail(s.Thumbnails)
			hit.Live = s.LiveBroadcastContent == "live"
		}
		page.Items = append(page.Items, hit)
	}
	return page
}

func toChannel(c *youtube.Channel) Channel {
	out := Channel{ID: c.Id, URL: channelURL(c.Id)}
	if s := c.Snippet; s != nil {
		out.Title = s.Title
		out.Description = s.Description
		out.CustomURL = s.CustomUrl
		out.Country = s.Country
		out.PublishedAt = s.PublishedAt
		out.Thumbnail = bestThumbnail(s.Thumbnails)
	}
	if st := c.Statistics; st != nil {
		out.SubscriberCount = st.SubscriberCount
		out.SubscribersHidden = st.HiddenSubscriberCount
		out.VideoCount = st.VideoCount
		out.ViewCount = st.ViewCount
	}
	if cd := c.ContentDetails; cd != nil && cd.RelatedPlaylists != nil {
		out.UploadsPlaylistID = cd.RelatedPlaylists.Uploads
	}
	return out
}

func toPlaylist(p *youtube.Playlist) Playlist {
	out := Playlist{ID: p.Id, URL: playlistURL(p.Id)}
	if s := p.Snippet; s != nil {
		out.Title = s.Title
		out.Description = s.Description
		out.ChannelID = s.ChannelId
		out.ChannelTitle = s.ChannelTitle
		out.PublishedAt = s.PublishedAt
		out.Thumbnail = bestThumbnail(s.Thumbnails)
	}
	if cd := p.ContentDetails; cd != nil {
		out.ItemCount = cd.ItemCount
	}
	return out
}

func toPlaylistItemPage(r *youtube.PlaylistItemListResponse) PlaylistItemPage {
	page := PlaylistItemPage{
		Items:         make([]PlaylistItem, 0, len(r.Items)),
		NextPageToken: r.NextPageToken,
		PrevPageToken: r.PrevPageToken,
		TotalResults:  totalResults(r.PageInfo),
	}
	for _, item := range r.Items {
		if item == nil {
			continue
		}
		out := PlaylistItem{ID: item.Id}
		if s := item.Snippet; s != nil {
			out.Title = s.Title
			out.Description = shorten(s.Description)
			out.Position = s.Position
			out.PublishedAt = s.PublishedAt
			out.Thumbnail = bestThumbnail(s.Thumbnails)
			if s.ResourceId != nil {
				out.VideoID = s.ResourceId.VideoId
			}
		}
		if out.VideoID == "" && item.ContentDetails != nil {
			out.VideoID = item.ContentDetails.VideoId
		}
		if out.VideoID != "" {
			out.URL = videoURL(out.VideoID)
		}
		page.Items = append(page.Items, out)
	}
	return page
}

func toCommentPage(r *youtube.CommentThreadListResponse) CommentPage {
	page := CommentPage{
		Items:         make([]Comment, 0, len(r.Items)),
		NextPageToken: r.NextPageToken,
		TotalResults:  totalResults(r.PageInfo),
	}
	for _, thread := range r.Items {
		if thread == nil || thread.Snippet == nil {
			continue
		}
		ts := thread.Snippet
		out := Comment{ID: thread.Id, VideoID: ts.VideoId, ReplyCount: ts.TotalReplyCount}
		if top := ts.TopLevelComment; top != nil && top.Snippet != nil {
			cs := top.Snippet
			out.Author = cs.AuthorDisplayName
			out.Text = engine.HTMLToMarkdown(cs.TextDisplay)
			out.TextPlain = engine.PlainText(cs.TextDisplay)
			out.LikeCount = cs.LikeCount
			out.PublishedAt = cs.PublishedAt
			out.UpdatedAt = cs.UpdatedAt
		}
		page.Items = append(page.Items, out)
	}
	return page
}
