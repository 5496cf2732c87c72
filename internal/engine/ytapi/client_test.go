package ytapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anatolykoptev/go_video/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/youtube/v3"
)

// fakeAPI is an httptest stand-in for the Data API. Handlers are keyed by
// endpoint path; every hit is counted.
type fakeAPI struct {
	srv *httptest.Server

	mu       sync.Mutex
	calls    map[string]int
	queries  []string
	handlers map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{calls: make(map[string]int), handlers: make(map[string]http.HandlerFunc)}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := strings.TrimPrefix(r.URL.Path, "/")
		f.mu.Lock()
		f.calls[endpoint]++
		f.queries = append(f.queries, r.URL.RawQuery)
		h := f.handlers[endpoint]
		f.mu.Unlock()
		if h == nil {
			http.Error(w, `{"error":{"code":404}}`, http.StatusNotFound)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) handle(endpoint string, h http.HandlerFunc) {
	f.mu.Lock()
	f.handlers[endpoint] = h
	f.mu.Unlock()
}

func (f *fakeAPI) count(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

func writeJSON(t *testing.T, v any) http.HandlerFunc {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.Write(body)
	}
}

func newTestClient(t *testing.T, api *fakeAPI, opts ...Option) *Client {
	t.Helper()
	cfg := engine.Config{
		APIBaseURL:     api.srv.URL,
		APIKey:         "test-key",
		Retries:        2,
		RetryBaseDelay: 5 * time.Millisecond,
		FetchTimeout:   2 * time.Second,
	}
	opts = append([]Option{WithHTTPClient(api.srv.Client())}, opts...)
	c, err := New(cfg, opts...)
	require.NoError(t, err)
	return c
}

func videoFixture() *youtube.VideoListResponse {
	return &youtube.VideoListResponse{
		NextPageToken: "NEXT",
		PageInfo:      &youtube.PageInfo{TotalResults: 120, ResultsPerPage: 1},
		Items: []*youtube.Video{{
			Id: "vid1",
			Snippet: &youtube.VideoSnippet{
				Title:        "Go in 100 seconds",
				Description:  strings.Repeat("concurrency ", 60),
				ChannelId:    "UC1",
				ChannelTitle: "Fireship",
				PublishedAt:  "2024-01-02T03:04:05Z",
				Thumbnails: &youtube.ThumbnailDetails{
					Default: &youtube.Thumbnail{Url: "https://i.ytimg.com/vi/vid1/default.jpg"},
					High:    &youtube.Thumbnail{Url: "https://i.ytimg.com/vi/vid1/hqdefault.jpg"},
				},
				Tags: []string{"go", "golang"},
			},
			Statistics:     &youtube.VideoStatistics{ViewCount: 1000, LikeCount: 50, CommentCount: 7},
			ContentDetails: &youtube.VideoContentDetails{Duration: "PT1M40S"},
		}},
	}
}

func TestListVideos_Chart(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("videos", writeJSON(t, videoFixture()))
	c := newTestClient(t, api)

	res, err := c.ListVideos(context.Background(), VideoListParams{})
	require.NoError(t, err)
	assert.True(t, res.OK())
	require.Len(t, res.Data.Items, 1)

	v := res.Data.Items[0]
	assert.Equal(t, "vid1", v.ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1", v.URL)
	assert.Equal(t, uint64(1000), v.ViewCount)
	assert.Equal(t, uint64(7), v.CommentCount)
	assert.Equal(t, "PT1M40S", v.Duration)
	assert.Equal(t, "https://i.ytimg.com/vi/vid1/hqdefault.jpg", v.Thumbnail)
	require.True(t, strings.HasSuffix(v.Description, "..."), "long description is cut: %q", v.Description)
	cut := strings.TrimSuffix(v.Description, "...")
	assert.LessOrEqual(t, len([]rune(cut)), listDescriptionLen)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(cut), "concurrency"), "cut falls on a word boundary: %q", cut)
	assert.Equal(t, "NEXT", res.Data.NextPageToken)
	assert.Equal(t, int64(120), res.Data.TotalResults)

	q := api.lastQuery()
	for _, want := range []string{"chart=mostPopular", "regionCode=US", "maxResults=25", "key=test-key"} {
		assert.Contains(t, q, want)
	}
}

func TestListVideos_Cached(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("videos", writeJSON(t, videoFixture()))
	c := newTestClient(t, api)
	ctx := context.Background()

	for range 3 {
		_, err := c.ListVideos(ctx, VideoListParams{IDs: []string{"vid1"}})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, api.count("videos"))
	assert.Equal(t, 1, c.Cache().Size())
}

func TestListVideos_IDOrderIsCanonical(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("videos", writeJSON(t, videoFixture()))
	c := newTestClient(t, api)
	ctx := context.Background()

	_, err := c.ListVideos(ctx, VideoListParams{IDs: []string{"b", "a"}})
	require.NoError(t, err)
	_, err = c.ListVideos(ctx, VideoListParams{IDs: []string{" a ", "b", "a"}})
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("videos"))
}

func TestGetVideo_DoesNotShareListCache(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("videos", writeJSON(t, videoFixture()))
	c := newTestClient(t, api)
	ctx := context.Background()

	page, err := c.ListVideos(ctx, VideoListParams{IDs: []string{"vid1"}})
	require.NoError(t, err)
	one, err := c.GetVideo(ctx, "vid1")
	require.NoError(t, err)

	assert.Len(t, page.Data.Items, 1)
	assert.Equal(t, "Go in 100 seconds", one.Data.Title)
	// Single lookups keep the full description.
	assert.Equal(t, strings.Repeat("concurrency ", 60), one.Data.Description)
	assert.Equal(t, 2, api.count("videos"))
}

func TestGate_DisabledListMakesNoCalls(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("videos", writeJSON(t, videoFixture()))
	c := newTestClient(t, api, WithGate(StaticGate(engine.GateDisabled)))

	res, err := c.ListVideos(context.Background(), VideoListParams{})
	require.NoError(t, err)
	assert.Equal(t, engine.GateDisabled, res.State)
	assert.False(t, res.OK())
	assert.NotNil(t, res.Data.Items)
	assert.Empty(t, res.Data.Items)

	sres, err := c.Search(context.Background(), SearchParams{Query: "golang"})
	require.NoError(t, err)
	assert.Equal(t, engine.GateDisabled, sres.State)
	assert.Empty(t, sres.Data.Items)

	assert.Equal(t, 0, api.total())
}

func TestGate_SingleEntityRejects(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api, WithGate(StaticGate(engine.GateDisabled)))

	res, err := c.GetChannel(context.Background(), "UC1")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrFeatureDisabled)
	var disabled *engine.DisabledError
	require.ErrorAs(t, err, &disabled)
	assert.Equal(t, Provider, disabled.Provider)
	assert.Equal(t, engine.GateDisabled, res.State)
	assert.Equal(t, 0, api.total())
}

func TestGate_NotConfiguredWithoutKey(t *testing.T) {
	api := newFakeAPI(t)
	c, err := New(engine.Config{APIBaseURL: api.srv.URL}, WithHTTPClient(api.srv.Client()))
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, engine.GateNotConfigured, c.GateState(ctx))

	_, err = c.GetVideo(ctx, "vid1")
	assert.ErrorIs(t, err, engine.ErrNotConfigured)
	assert.NotErrorIs(t, err, engine.ErrFeatureDisabled)

	res, err := c.ListComments(ctx, CommentParams{VideoID: "vid1"})
	require.NoError(t, err)
	assert.Equal(t, engine.GateNotConfigured, res.State)
	assert.Equal(t, 0, api.total())
}

func TestGate_ToggledAtRuntime(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("videos", writeJSON(t, videoFixture()))
	var enabled atomic.Bool
	gate := GateFunc(func(context.Context) engine.GateState {
		if enabled.Load() {
			return engine.GateEnabled
		}
		return engine.GateDisabled
	})
	c := newTestClient(t, api, WithGate(gate))
	ctx := context.Background()

	res, err := c.ListVideos(ctx, VideoListParams{})
	require.NoError(t, err)
	assert.False(t, res.OK())

	enabled.Store(true)
	res, err = c.ListVideos(ctx, VideoListParams{})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Len(t, res.Data.Items, 1)
	assert.Equal(t, 1, api.count("videos"))
}

func TestSearch_CanonicalParams(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("search", writeJSON(t, &youtube.SearchListResponse{
		RegionCode: "US",
		Items: []*youtube.SearchResult{
			{Id: &youtube.ResourceId{Kind: "youtube#video", VideoId: "v1"}, Snippet: &youtube.SearchResultSnippet{Title: "Live coding", LiveBroadcastContent: "live"}},
			{Id: &youtube.ResourceId{Kind: "youtube#channel", ChannelId: "UC9"}, Snippet: &youtube.SearchResultSnippet{Title: "Gophers"}},
			{Id: &youtube.ResourceId{Kind: "youtube#playlist", PlaylistId: "PL1"}},
		},
	}))
	c := newTestClient(t, api)
	ctx := context.Background()

	a, err := c.Search(ctx, SearchParams{Query: "  golang   tutorials "})
	require.NoError(t, err)
	b, err := c.Search(ctx, SearchParams{Query: "golang tutorials", Type: "video", Order: "relevance", Region: "us", SafeSearch: "moderate"})
	require.NoError(t, err)

	assert.Equal(t, 1, api.count("search"))
	assert.Equal(t, a.Data, b.Data)
	require.Len(t, a.Data.Items, 3)
	assert.Equal(t, "video", a.Data.Items[0].Kind)
	assert.True(t, a.Data.Items[0].Live)
	assert.Equal(t, "channel", a.Data.Items[1].Kind)
	assert.Equal(t, "https://www.youtube.com/channel/UC9", a.Data.Items[1].URL)
	assert.Equal(t, "https://www.youtube.com/playlist?list=PL1", a.Data.Items[2].URL)
}

func TestSearch_Validation(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api)
	ctx := context.Background()

	cases := []SearchParams{
		{Query: "   "},
		{Query: "go", Type: "podcast"},
		{Query: "go", Order: "random"},
		{Query: "go", SafeSearch: "off"},
	}
	for _, p := range cases {
		_, err := c.Search(ctx, p)
		var valErr *engine.ValidationError
		assert.ErrorAs(t, err, &valErr, "params %+v", p)
	}
	assert.Equal(t, 0, api.total())
}

func TestGetVideo_NotFound(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("videos", writeJSON(t, &youtube.VideoListResponse{Items: []*youtube.Video{}}))
	c := newTestClient(t, api)

	_, err := c.GetVideo(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrNotFound)
	var nf *engine.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "video", nf.Resource)
	assert.Equal(t, "missing", nf.ID)
	assert.NotErrorIs(t, err, engine.ErrFeatureDisabled)
	assert.Equal(t, 1, api.count("videos"), "not-found is not retried")
}

func TestGetPlaylist_Upstream404(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api)

	_, err := c.GetPlaylist(context.Background(), "PLnope")
	assert.ErrorIs(t, err, engine.ErrNotFound)
	assert.Equal(t, 404, engine.StatusCode(err))
	assert.Equal(t, 1, api.count("playlists"))
}

func TestGetChannel_Handle(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("channels", writeJSON(t, &youtube.ChannelListResponse{
		Items: []*youtube.Channel{{
			Id:         "UC_x5XG1OV2P6uZZ5FSM9Ttw",
			Snippet:    &youtube.ChannelSnippet{Title: "Google for Developers", CustomUrl: "@googledevelopers", Country: "US"},
			Statistics: &youtube.ChannelStatistics{SubscriberCount: 2400000, VideoCount: 6000, ViewCount: 300000000},
			ContentDetails: &youtube.ChannelContentDetails{
				RelatedPlaylists: &youtube.ChannelContentDetailsRelatedPlaylists{Uploads: "UU_x5XG1OV2P6uZZ5FSM9Ttw"},
			},
		}},
	}))
	c := newTestClient(t, api)

	res, err := c.GetChannel(context.Background(), "@GoogleDevelopers")
	require.NoError(t, err)
	assert.Contains(t, api.lastQuery(), "forHandle=%40GoogleDevelopers")
	assert.Equal(t, "Google for Developers", res.Data.Title)
	assert.Equal(t, uint64(2400000), res.Data.SubscriberCount)
	assert.Equal(t, "UU_x5XG1OV2P6uZZ5FSM9Ttw", res.Data.UploadsPlaylistID)
}

func TestGetChannel_NotFoundUsesTrimmedID(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("channels", writeJSON(t, &youtube.ChannelListResponse{Items: []*youtube.Channel{}}))
	c := newTestClient(t, api)
	ctx := context.Background()

	_, err := c.GetChannel(ctx, "  UCmissing \n")
	var nf *engine.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "UCmissing", nf.ID)

	_, err = c.GetChannel(ctx, " @nobody ")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "@nobody", nf.ID)
}

func TestGetChannel_EmptyID(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api)
	_, err := c.GetChannel(context.Background(), " ")
	var valErr *engine.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, 0, api.total())
}

func TestConcurrentCallsDeduplicated(t *testing.T) {
	api := newFakeAPI(t)
	release := make(chan struct{})
	body, err := json.Marshal(&youtube.ChannelListResponse{Items: []*youtube.Channel{{Id: "UC1", Snippet: &youtube.ChannelSnippet{Title: "one"}}}})
	require.NoError(t, err)
	api.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	})
	c := newTestClient(t, api)

	const n = 10
	var wg sync.WaitGroup
	titles := make([]string, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := c.GetChannel(context.Background(), "UC1")
			if err == nil {
				titles[i] = res.Data.Title
			}
		}()
	}
	require.Eventually(t, func() bool { return api.count("channels") == 1 }, 2*time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, api.count("channels"))
	for i, title := range titles {
		assert.Equal(t, "one", title, "caller %d", i)
	}
}

func TestRetry_ServerErrorsThenSuccess(t *testing.T) {
	api := newFakeAPI(t)
	var attempts atomic.Int32
	ok := writeJSON(t, videoFixture())
	api.handle("videos", func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			http.Error(w, "backend error", http.StatusServiceUnavailable)
			return
		}
		ok(w, r)
	})
	c := newTestClient(t, api)

	var intercepted atomic.Int32
	c.Interceptors().AddError(func(err error) error {
		intercepted.Add(1)
		return err
	})

	res, err := c.ListVideos(context.Background(), VideoListParams{})
	require.NoError(t, err)
	assert.Len(t, res.Data.Items, 1)
	assert.Equal(t, 3, api.count("videos"))
	assert.Equal(t, int32(2), intercepted.Load(), "error interceptors see each failed attempt")
}

func TestRetry_ExhaustedReturnsLastError(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("videos", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "still down", http.StatusBadGateway)
	})
	c := newTestClient(t, api)

	_, err := c.ListVideos(context.Background(), VideoListParams{})
	var apiErr *engine.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, 3, api.count("videos"))

	// Failures are not cached: the next call goes upstream again.
	_, _ = c.ListVideos(context.Background(), VideoListParams{})
	assert.Equal(t, 6, api.count("videos"))
}

func TestClientErrorNotRetried(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"errors":[{"reason":"quotaExceeded"}]}}`))
	})
	c := newTestClient(t, api)

	_, err := c.Search(context.Background(), SearchParams{Query: "golang"})
	var apiErr *engine.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "quotaExceeded", apiErr.Reason())
	assert.Equal(t, 1, api.count("search"))
}

func TestClearCache(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("videos", writeJSON(t, videoFixture()))
	api.handle("channels", writeJSON(t, &youtube.ChannelListResponse{Items: []*youtube.Channel{{Id: "UC1"}}}))
	c := newTestClient(t, api)
	ctx := context.Background()

	_, err := c.ListVideos(ctx, VideoListParams{})
	require.NoError(t, err)
	_, err = c.GetChannel(ctx, "UC1")
	require.NoError(t, err)
	require.Equal(t, 2, c.Cache().Size())

	assert.Equal(t, 1, c.ClearCache(ctx, "^videos"))
	_, _ = c.ListVideos(ctx, VideoListParams{})
	_, _ = c.GetChannel(ctx, "UC1")
	assert.Equal(t, 2, api.count("videos"))
	assert.Equal(t, 1, api.count("channels"))

	assert.Equal(t, 2, c.ClearCache(ctx, ""))
	assert.Equal(t, 0, c.Cache().Size())
}

func TestClearCacheDuringFetch(t *testing.T) {
	api := newFakeAPI(t)
	body, err := json.Marshal(&youtube.ChannelListResponse{Items: []*youtube.Channel{{Id: "UC1"}}})
	require.NoError(t, err)
	started := make(chan struct{})
	release := make(chan struct{})
	api.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	})
	c := newTestClient(t, api)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := c.GetChannel(ctx, "UC1")
		done <- err
	}()
	<-started
	c.ClearCache(ctx, "")
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, 0, c.Cache().Size(), "result fetched before the purge must not be cached")
}

func TestCacheExpiresPerEndpointTTL(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("commentThreads", writeJSON(t, &youtube.CommentThreadListResponse{}))
	cfg := engine.Config{
		APIBaseURL:  api.srv.URL,
		APIKey:      "k",
		CommentsTTL: 50 * time.Millisecond,
	}
	c, err := New(cfg, WithHTTPClient(api.srv.Client()))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.ListComments(ctx, CommentParams{VideoID: "vid1"})
	require.NoError(t, err)
	_, err = c.ListComments(ctx, CommentParams{VideoID: "vid1"})
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("commentThreads"))

	time.Sleep(80 * time.Millisecond)
	_, err = c.ListComments(ctx, CommentParams{VideoID: "vid1"})
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("commentThreads"))
}

func TestRequestInterceptorsThroughClient(t *testing.T) {
	api := newFakeAPI(t)
	var seen []string
	var mu sync.Mutex
	ok := writeJSON(t, videoFixture())
	api.handle("videos", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = r.Header.Values("X-Step")
		mu.Unlock()
		ok(w, r)
	})
	c := newTestClient(t, api)
	for _, step := range []string{"a", "b"} {
		c.Interceptors().AddRequest(func(req *http.Request) (*http.Request, error) {
			req.Header.Add("X-Step", step)
			return req, nil
		})
	}

	_, err := c.ListVideos(context.Background(), VideoListParams{})
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Contains(t, api.lastQuery(), "key=test-key")
}

func TestRequestInterceptorFailureAborts(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api, WithoutDefaultInterceptors())
	boom := errors.New("blocked by policy")
	c.Interceptors().AddRequest(func(*http.Request) (*http.Request, error) { return nil, boom })

	_, err := c.ListVideos(context.Background(), VideoListParams{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, api.total())
}

func TestAPIKeyFromFunc(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("videos", writeJSON(t, videoFixture()))
	var key atomic.Value
	key.Store("")
	keyFn := func() string { return key.Load().(string) }
	c, err := New(engine.Config{APIBaseURL: api.srv.URL}, WithHTTPClient(api.srv.Client()), WithAPIKeyFunc(keyFn))
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, engine.GateNotConfigured, c.GateState(ctx))
	key.Store("rotated")
	assert.Equal(t, engine.GateEnabled, c.GateState(ctx))

	_, err = c.ListVideos(ctx, VideoListParams{})
	require.NoError(t, err)
	assert.Contains(t, api.lastQuery(), "key=rotated")
}

func TestListComments(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("commentThreads", writeJSON(t, &youtube.CommentThreadListResponse{
		NextPageToken: "C2",
		Items: []*youtube.CommentThread{{
			Id: "t1",
			Snippet: &youtube.CommentThreadSnippet{
				VideoId:         "vid1",
				TotalReplyCount: 2,
				TopLevelComment: &youtube.Comment{
					Id: "c1",
					Snippet: &youtube.CommentSnippet{
						AuthorDisplayName: "@gopher",
						TextDisplay:       `Loved it!<br>See <a href="https://go.dev">go.dev</a> &amp; more`,
						LikeCount:         12,
						PublishedAt:       "2024-02-01T00:00:00Z",
					},
				},
			},
		}},
	}))
	c := newTestClient(t, api)

	res, err := c.ListComments(context.Background(), CommentParams{VideoID: "vid1", Order: "relevance", Search: "loved"})
	require.NoError(t, err)
	require.Len(t, res.Data.Items, 1)

	cm := res.Data.Items[0]
	assert.Equal(t, "@gopher", cm.Author)
	assert.Equal(t, int64(12), cm.LikeCount)
	assert.Equal(t, int64(2), cm.ReplyCount)
	assert.Contains(t, cm.Text, "[go.dev](https://go.dev)")
	assert.Equal(t, "Loved it!\nSee go.dev & more", cm.TextPlain)
	assert.Equal(t, "C2", res.Data.NextPageToken)

	q := api.lastQuery()
	assert.Contains(t, q, "order=relevance")
	assert.Contains(t, q, "searchTerms=loved")
	assert.Contains(t, q, "videoId=vid1")

	_, err = c.ListComments(context.Background(), CommentParams{VideoID: "vid1", Order: "newest"})
	var valErr *engine.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestPlaylists(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("playlists", writeJSON(t, &youtube.PlaylistListResponse{
		Items: []*youtube.Playlist{{
			Id:             "PL1",
			Snippet:        &youtube.PlaylistSnippet{Title: "Go talks", ChannelId: "UC1", ChannelTitle: "GopherCon"},
			ContentDetails: &youtube.PlaylistContentDetails{ItemCount: 2},
		}},
	}))
	api.handle("playlistItems", writeJSON(t, &youtube.PlaylistItemListResponse{
		PageInfo: &youtube.PageInfo{TotalResults: 2},
		Items: []*youtube.PlaylistItem{
			{Id: "i1", Snippet: &youtube.PlaylistItemSnippet{Title: "Keynote", Position: 0, ResourceId: &youtube.ResourceId{VideoId: "v1"}}},
			{Id: "i2", Snippet: &youtube.PlaylistItemSnippet{Title: "Generics", Position: 1}, ContentDetails: &youtube.PlaylistItemContentDetails{VideoId: "v2"}},
		},
	}))
	c := newTestClient(t, api)
	ctx := context.Background()

	pl, err := c.GetPlaylist(ctx, "PL1")
	require.NoError(t, err)
	assert.Equal(t, "Go talks", pl.Data.Title)
	assert.Equal(t, int64(2), pl.Data.ItemCount)
	assert.Equal(t, "https://www.youtube.com/playlist?list=PL1", pl.Data.URL)

	items, err := c.ListPlaylistItems(ctx, PlaylistItemsParams{PlaylistID: "PL1", PageSize: 500})
	require.NoError(t, err)
	require.Len(t, items.Data.Items, 2)
	assert.Equal(t, "https://www.youtube.com/watch?v=v1", items.Data.Items[0].URL)
	assert.Equal(t, "v2", items.Data.Items[1].VideoID)
	assert.Contains(t, api.lastQuery(), "maxResults=50")

	_, err = c.ListPlaylistItems(ctx, PlaylistItemsParams{})
	var valErr *engine.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestSignatureIsOrderIndependent(t *testing.T) {
	a := SearchParams{Query: "go", Order: "date", Region: "de"}
	b := SearchParams{Region: "DE", Order: "date", Query: " go "}
	cfg := engine.Config{}.WithDefaults()
	qa, err := a.query(cfg)
	require.NoError(t, err)
	qb, err := b.query(cfg)
	require.NoError(t, err)
	assert.Equal(t, Signature(endpointSearch, qa), Signature(endpointSearch, qb))

	qc, err := SearchParams{Query: "go", Order: "viewCount"}.query(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, Signature(endpointSearch, qa), Signature(endpointSearch, qc))
}
