package ytapi

import (
	"context"

	"google.golang.org/api/youtube/v3"
)

// Search runs a keyword search. An empty query fails with a ValidationError
// before any gate check or network I/O.
func (c *Client) Search(ctx context.Context, p SearchParams) (Result[SearchPage], error) {
	empty := SearchPage{Items: []SearchHit{}}
	q, err := p.query(c.cfg)
	if err != nil {
		return Result[SearchPage]{Data: empty}, err
	}
	r := request{endpoint: endpointSearch, query: q, ttl: c.cfg.ListTTL}
	return call(ctx, c, r, empty, func(w *youtube.SearchListResponse) (SearchPage, error) {
		return toSearchPage(w), nil
	})
}
