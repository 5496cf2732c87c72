// Package settings persists admin-controlled provider settings (enabled flag,
// API key override) and turns them into a feature gate for the facade.
package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store is a flat string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
	Close() error
}

func enabledKey(provider string) string { return fmt.Sprintf("provider.%s.enabled", provider) }
func apiKeyKey(provider string) string  { return fmt.Sprintf("provider.%s.api_key", provider) }

// DefaultSQLitePath is ~/.go_video/settings.db.
func DefaultSQLitePath() string {
	return filepath.Join(os.Getenv("HOME"), ".go_video", "settings.db")
}

// Open returns a Postgres store when databaseURL is set, otherwise a SQLite
// store at sqlitePath (DefaultSQLitePath when empty).
func Open(ctx context.Context, databaseURL, sqlitePath string) (Store, error) {
	if databaseURL != "" {
		return OpenPostgres(ctx, databaseURL)
	}
	if sqlitePath == "" {
		sqlitePath = DefaultSQLitePath()
	}
	return OpenSQLite(sqlitePath)
}
