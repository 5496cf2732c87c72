// Package videoserver exposes the YouTube facade as MCP tools.
package videoserver

import (
	"context"

	"github.com/anatolykoptev/go_video/internal/engine"
	"github.com/anatolykoptev/go_video/internal/engine/ytapi"
	"github.com/anatolykoptev/go_video/internal/settings"
	"github.com/anatolykoptev/go_video/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Admin is the provider settings surface used by provider_status/provider_set.
type Admin interface {
	Status() settings.ProviderStatus
	SetEnabled(ctx context.Context, enabled bool) error
	SetAPIKey(ctx context.Context, key string) error
	Stored(ctx context.Context) (map[string]string, error)
}

// RegisterTools registers all video tools on the given MCP server.
// admin may be nil, in which case the provider_* tools are not registered.
func RegisterTools(server *mcp.Server, yt *ytapi.Client, admin Admin) int {
	registerVideoList(server, yt)
	registerVideoGet(server, yt)
	registerVideoSearch(server, yt)
	registerChannelGet(server, yt)
	registerPlaylistGet(server, yt)
	registerPlaylistItems(server, yt)
	registerCommentsList(server, yt)
	registerCacheClear(server, yt)
	n := 8
	if admin != nil {
		registerProviderStatus(server, yt, admin)
		registerProviderSet(server, admin)
		n += 2
	}
	return n
}

// ListOutput is the output of every paged tool.
type ListOutput[T any] struct {
	Status        string `json:"status" jsonschema:"ok, disabled or not_configured"`
	Message       string `json:"message,omitempty"`
	Items         []T    `json:"items"`
	NextPageToken string `json:"next_page_token,omitempty" jsonschema:"Pass as page_token to fetch the next page"`
	PrevPageToken string `json:"prev_page_token,omitempty"`
	TotalResults  int64  `json:"total_results"`
}

// ItemOutput is the output of every single-entity tool.
type ItemOutput[T any] struct {
	Status  string `json:"status" jsonschema:"ok, not_found, disabled or not_configured"`
	Message string `json:"message,omitempty"`
	Item    *T     `json:"item,omitempty"`
}

func listResult[T any](state engine.GateState, err error, items []T, next, prev string, total int64) (*mcp.CallToolResult, ListOutput[T], error) {
	status, msg, fatal := toolutil.Outcome(state, err)
	if fatal != nil {
		return nil, ListOutput[T]{}, fatal
	}
	if items == nil {
		items = []T{}
	}
	return nil, ListOutput[T]{
		Status:        status,
		Message:       msg,
		Items:         items,
		NextPageToken: next,
		PrevPageToken: prev,
		TotalResults:  total,
	}, nil
}

func itemResult[T any](res ytapi.Result[T], err error) (*mcp.CallToolResult, ItemOutput[T], error) {
	status, msg, fatal := toolutil.Outcome(res.State, err)
	if fatal != nil {
		return nil, ItemOutput[T]{}, fatal
	}
	out := ItemOutput[T]{Status: status, Message: msg}
	if status == toolutil.StatusOK {
		item := res.Data
		out.Item = &item
	}
	return nil, out, nil
}
