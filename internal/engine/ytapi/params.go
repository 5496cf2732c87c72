package ytapi

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_video/internal/engine"
)

// Endpoints of the Data API v3.
const (
	endpointVideos         = "videos"
	endpointSearch         = "search"
	endpointChannels       = "channels"
	endpointPlaylists      = "playlists"
	endpointPlaylistItems  = "playlistItems"
	endpointCommentThreads = "commentThreads"
)

// Signature is the canonical cache and dedup key for a request: the endpoint
// plus its query with keys sorted, so equal parameter sets always collide.
func Signature(endpoint string, q url.Values) string {
	return engine.CacheKey(endpoint, q.Encode())
}

// VideoListParams selects videos either by id or by chart.
type VideoListParams struct {
	IDs        []string // when set, Chart and Region are ignored
	Chart      string   // default mostPopular
	Region     string   // ISO 3166-1 alpha-2; default from config
	CategoryID string
	PageSize   int
	PageToken  string
}

// SearchParams are the typed inputs of Search.
type SearchParams struct {
	Query      string
	Type       string // video (default), channel, playlist
	Order      string // relevance (default), date, rating, title, videoCount, viewCount
	Region     string
	Language   string // relevanceLanguage
	ChannelID  string
	SafeSearch string // moderate (default), none, strict
	PageSize   int
	PageToken  string
}

// PlaylistItemsParams page through a playlist.
type PlaylistItemsParams struct {
	PlaylistID string
	PageSize   int
	PageToken  string
}

// CommentParams page through top-level comments of a video.
type CommentParams struct {
	VideoID   string
	Order     string // time (default), relevance
	Search    string // searchTerms
	PageSize  int
	PageToken string
}

var (
	searchTypes  = map[string]bool{"video": true, "channel": true, "playlist": true}
	searchOrders = map[string]bool{"relevance": true, "date": true, "rating": true, "title": true, "videoCount": true, "viewCount": true}
	safeSearches = map[string]bool{"moderate": true, "none": true, "strict": true}
	commentOrder = map[string]bool{"time": true, "relevance": true}
)

func pageSize(n, def int) string {
	if n <= 0 {
		n = def
	}
	if n > engine.MaxPageSize {
		n = engine.MaxPageSize
	}
	return strconv.Itoa(n)
}

func region(r, def string) string {
	r = strings.ToUpper(strings.TrimSpace(r))
	if r == "" {
		return def
	}
	return r
}

var (
	videoURLRe    = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/|live/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	playlistURLRe = regexp.MustCompile(`[?&]list=([a-zA-Z0-9_-]+)`)
)

// VideoID accepts a bare id or a watch, shorts, embed, live or youtu.be URL.
func VideoID(s string) string {
	s = strings.TrimSpace(s)
	if m := videoURLRe.FindStringSubmatch(s); len(m) == 2 {
		return m[1]
	}
	return s
}

// PlaylistID accepts a bare id or any URL carrying list=.
func PlaylistID(s string) string {
	s = strings.TrimSpace(s)
	if m := playlistURLRe.FindStringSubmatch(s); len(m) == 2 {
		return m[1]
	}
	return s
}

// normIDs trims, drops empties, dedupes and sorts ids.
func normIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, part := range strings.Split(id, ",") {
			part = VideoID(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	sort.Strings(out)
	return out
}

func (p VideoListParams) query(cfg engine.Config) (url.Values, error) {
	q := url.Values{}
	q.Set("part", "snippet,statistics,contentDetails")
	if ids := normIDs(p.IDs); len(ids) > 0 {
		if len(ids) > engine.MaxPageSize {
			return nil, &engine.ValidationError{Field: "ids", Reason: "at most 50 ids per request"}
		}
		q.Set("id", strings.Join(ids, ","))
		return q, nil
	}
	chart := strings.TrimSpace(p.Chart)
	if chart == "" {
		chart = "mostPopular"
	}
	if chart != "mostPopular" {
		return nil, &engine.ValidationError{Field: "chart", Reason: "only mostPopular is supported"}
	}
	q.Set("chart", chart)
	q.Set("regionCode", region(p.Region, cfg.Region))
	q.Set("maxResults", pageSize(p.PageSize, cfg.PageSize))
	if c := strings.TrimSpace(p.CategoryID); c != "" {
		q.Set("videoCategoryId", c)
	}
	if t := strings.TrimSpace(p.PageToken); t != "" {
		q.Set("pageToken", t)
	}
	return q, nil
}

func (p SearchParams) query(cfg engine.Config) (url.Values, error) {
	query := strings.Join(strings.Fields(p.Query), " ")
	if query == "" {
		return nil, &engine.ValidationError{Field: "query", Reason: "must not be empty"}
	}
	typ := strings.TrimSpace(p.Type)
	if typ == "" {
		typ = "video"
	}
	if !searchTypes[typ] {
		return nil, &engine.ValidationError{Field: "type", Reason: "must be video, channel or playlist"}
	}
	order := strings.TrimSpace(p.Order)
	if order == "" {
		order = "relevance"
	}
	if !searchOrders[order] {
		return nil, &engine.ValidationError{Field: "order", Reason: "unsupported value " + strconv.Quote(order)}
	}
	safe := strings.TrimSpace(p.SafeSearch)
	if safe == "" {
		safe = "moderate"
	}
	if !safeSearches[safe] {
		return nil, &engine.ValidationError{Field: "safe_search", Reason: "must be moderate, none or strict"}
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", query)
	q.Set("type", typ)
	q.Set("order", order)
	q.Set("safeSearch", safe)
	q.Set("regionCode", region(p.Region, cfg.Region))
	q.Set("maxResults", pageSize(p.PageSize, cfg.PageSize))
	if lang := strings.ToLower(strings.TrimSpace(p.Language)); lang != "" && lang != "all" {
		q.Set("relevanceLanguage", lang)
	}
	if ch := strings.TrimSpace(p.ChannelID); ch != "" {
		q.Set("channelId", ch)
	}
	if t := strings.TrimSpace(p.PageToken); t != "" {
		q.Set("pageToken", t)
	}
	return q, nil
}

func (p PlaylistItemsParams) query(cfg engine.Config) (url.Values, error) {
	id := PlaylistID(p.PlaylistID)
	if id == "" {
		return nil, &engine.ValidationError{Field: "playlist_id", Reason: "must not be empty"}
	}
	q := url.Values{}
	q.Set("part", "snippet,contentDetails")
	q.Set("playlistId", id)
	q.Set("maxResults", pageSize(p.PageSize, cfg.PageSize))
	if t := strings.TrimSpace(p.PageToken); t != "" {
		q.Set("pageToken", t)
	}
	return q, nil
}

func (p CommentParams) query(cfg engine.Config) (url.Values, error) {
	id := VideoID(p.VideoID)
	if id == "" {
		return nil, &engine.ValidationError{Field: "video_id", Reason: "must not be empty"}
	}
	order := strings.TrimSpace(p.Order)
	if order == "" {
		order = "time"
	}
	if !commentOrder[order] {
		return nil, &engine.ValidationError{Field: "order", Reason: "must be time or relevance"}
	}
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("videoId", id)
	q.Set("order", order)
	q.Set("textFormat", "html")
	q.Set("maxResults", pageSize(p.PageSize, cfg.PageSize))
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("searchTerms", s)
	}
	if t := strings.TrimSpace(p.PageToken); t != "" {
		q.Set("pageToken", t)
	}
	return q, nil
}

// singleQuery builds the query for a lookup by id. Channel lookups accept an
// @handle in place of an id.
func singleQuery(field, id, part string) (url.Values, error) {
	switch field {
	case "video_id":
		id = VideoID(id)
	case "playlist_id":
		id = PlaylistID(id)
	default:
		id = strings.TrimSpace(id)
	}
	if id == "" {
		return nil, &engine.ValidationError{Field: field, Reason: "must not be empty"}
	}
	q := url.Values{}
	q.Set("part", part)
	if field == "channel_id" && strings.HasPrefix(id, "@") {
		q.Set("forHandle", id)
		return q, nil
	}
	q.Set("id", id)
	return q, nil
}
