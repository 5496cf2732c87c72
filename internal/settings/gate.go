package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/anatolykoptev/go_video/internal/engine"
)

// ProviderStatus is the admin view of one provider.
type ProviderStatus struct {
	Provider  string `json:"provider"`
	State     string `json:"state"`
	Enabled   bool   `json:"enabled"`
	HasAPIKey bool   `json:"has_api_key"`
	KeySource string `json:"key_source"` // "store", "env" or "none"
}

// ChangeFunc is called after a setting changes.
type ChangeFunc func(ctx context.Context, state engine.GateState)

// DefaultRefreshInterval bounds how stale a gate's view of a shared store may get.
const DefaultRefreshInterval = 5 * time.Second

// ProviderGate combines the persisted enabled flag and API key override with
// the API key from the environment. Reads are served from a snapshot that
// State refreshes from the store once it is older than the refresh interval,
// so a change written by another process takes effect here too. Writes go to
// the store first and then update the snapshot.
type ProviderGate struct {
	store    Store
	provider string
	envKey   string
	refresh  time.Duration
	now      func() time.Time

	reloading sync.Mutex

	mu        sync.RWMutex
	enabled   bool
	storedKey string
	loadedAt  time.Time
	listeners []ChangeFunc
}

// NewProviderGate loads the provider's settings from store. A provider with
// no stored flag is enabled.
func NewProviderGate(ctx context.Context, store Store, provider, envKey string) (*ProviderGate, error) {
	g := &ProviderGate{
		store:    store,
		provider: provider,
		envKey:   envKey,
		refresh:  DefaultRefreshInterval,
		now:      time.Now,
		enabled:  true,
	}
	if _, err := g.load(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

// SetRefreshInterval changes how often State re-reads the store.
// Zero or less turns the refresh off.
func (g *ProviderGate) SetRefreshInterval(d time.Duration) {
	g.mu.Lock()
	g.refresh = d
	g.mu.Unlock()
}

// Reload re-reads the settings from the store. Listeners run when the
// provider's settings differ from the previous snapshot.
func (g *ProviderGate) Reload(ctx context.Context) error {
	changed, err := g.load(ctx)
	if err != nil {
		return err
	}
	if changed {
		slog.Info("settings: provider changed in store", slog.String("provider", g.provider))
		g.notify(ctx)
	}
	return nil
}

func (g *ProviderGate) load(ctx context.Context) (bool, error) {
	enabled := true
	raw, ok, err := g.store.Get(ctx, enabledKey(g.provider))
	if err != nil {
		return false, err
	}
	if ok {
		enabled, err = strconv.ParseBool(raw)
		if err != nil {
			return false, fmt.Errorf("settings: bad %s value %q: %w", enabledKey(g.provider), raw, err)
		}
	}
	key, _, err := g.store.Get(ctx, apiKeyKey(g.provider))
	if err != nil {
		return false, err
	}

	g.mu.Lock()
	changed := g.enabled != enabled || g.storedKey != key
	g.enabled = enabled
	g.storedKey = key
	g.loadedAt = g.now()
	g.mu.Unlock()
	return changed, nil
}

// State implements the facade gate.
func (g *ProviderGate) State(ctx context.Context) engine.GateState {
	g.refreshIfStale(ctx)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.stateLocked()
}

// refreshIfStale reloads an expired snapshot. Concurrent callers do not
// wait for a reload already in progress; they read the current snapshot.
func (g *ProviderGate) refreshIfStale(ctx context.Context) {
	g.mu.RLock()
	stale := g.refresh > 0 && g.now().Sub(g.loadedAt) >= g.refresh
	g.mu.RUnlock()
	if !stale || !g.reloading.TryLock() {
		return
	}
	defer g.reloading.Unlock()

	if err := g.Reload(ctx); err != nil {
		// Keep serving the last good snapshot and retry after another interval.
		g.mu.Lock()
		g.loadedAt = g.now()
		g.mu.Unlock()
		slog.Warn("settings: reload failed", slog.String("provider", g.provider), slog.Any("error", err))
	}
}

func (g *ProviderGate) stateLocked() engine.GateState {
	switch {
	case !g.enabled:
		return engine.GateDisabled
	case g.storedKey == "" && g.envKey == "":
		return engine.GateNotConfigured
	default:
		return engine.GateEnabled
	}
}

// APIKey returns the stored override, falling back to the environment key.
func (g *ProviderGate) APIKey() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.storedKey != "" {
		return g.storedKey
	}
	return g.envKey
}

// OnChange registers fn to run after every successful SetEnabled/SetAPIKey and
// after a reload that picks up a change made elsewhere.
func (g *ProviderGate) OnChange(fn ChangeFunc) {
	g.mu.Lock()
	g.listeners = append(g.listeners, fn)
	g.mu.Unlock()
}

// SetEnabled persists the enabled flag.
func (g *ProviderGate) SetEnabled(ctx context.Context, enabled bool) error {
	if err := g.store.Set(ctx, enabledKey(g.provider), strconv.FormatBool(enabled)); err != nil {
		return err
	}
	g.mu.Lock()
	g.enabled = enabled
	g.mu.Unlock()
	slog.Info("settings: provider toggled", slog.String("provider", g.provider), slog.Bool("enabled", enabled))
	g.notify(ctx)
	return nil
}

// SetAPIKey persists an API key override. An empty key removes the override
// and falls back to the environment key.
func (g *ProviderGate) SetAPIKey(ctx context.Context, key string) error {
	if err := g.store.Set(ctx, apiKeyKey(g.provider), key); err != nil {
		return err
	}
	g.mu.Lock()
	g.storedKey = key
	g.mu.Unlock()
	slog.Info("settings: api key updated", slog.String("provider", g.provider), slog.Bool("override", key != ""))
	g.notify(ctx)
	return nil
}

// Status reports the current settings without revealing the key.
func (g *ProviderGate) Status() ProviderStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()
	src := "none"
	switch {
	case g.storedKey != "":
		src = "store"
	case g.envKey != "":
		src = "env"
	}
	return ProviderStatus{
		Provider:  g.provider,
		State:     g.stateLocked().String(),
		Enabled:   g.enabled,
		HasAPIKey: src != "none",
		KeySource: src,
	}
}

func (g *ProviderGate) notify(ctx context.Context) {
	g.mu.RLock()
	st := g.stateLocked()
	fns := make([]ChangeFunc, len(g.listeners))
	copy(fns, g.listeners)
	g.mu.RUnlock()
	for _, fn := range fns {
		fn(ctx, st)
	}
}

// Stored returns every persisted setting. API key values are replaced by
// "set" so the result is safe to show.
func (g *ProviderGate) Stored(ctx context.Context) (map[string]string, error) {
	all, err := g.store.All(ctx)
	if err != nil {
		return nil, err
	}
	for k, v := range all {
		if strings.HasSuffix(k, ".api_key") && v != "" {
			all[k] = "set"
		}
	}
	return all, nil
}
