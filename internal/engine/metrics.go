package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	FacadeRequests   atomic.Int64
	UpstreamAttempts atomic.Int64
	Retries          atomic.Int64
	UpstreamErrors   atomic.Int64
	DedupShared      atomic.Int64
	GateBlocked      atomic.Int64
	CacheHits        atomic.Int64
	CacheMisses      atomic.Int64
}

// metricKeys fixes the output order of FormatMetrics.
var metricKeys = []string{
	"facade_requests", "upstream_attempts", "retries", "upstream_errors",
	"dedup_shared", "gate_blocked", "cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"facade_requests":   metrics.FacadeRequests.Load(),
		"upstream_attempts": metrics.UpstreamAttempts.Load(),
		"retries":           metrics.Retries.Load(),
		"upstream_errors":   metrics.UpstreamErrors.Load(),
		"dedup_shared":      metrics.DedupShared.Load(),
		"gate_blocked":      metrics.GateBlocked.Load(),
		"cache_hits":        metrics.CacheHits.Load(),
		"cache_misses":      metrics.CacheMisses.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the ytapi facade.
func IncrFacadeRequests() { metrics.FacadeRequests.Add(1) }
func IncrGateBlocked()    { metrics.GateBlocked.Add(1) }
func IncrUpstreamErrors() { metrics.UpstreamErrors.Add(1) }

// RecordCacheLookup counts a facade-level cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		metrics.CacheHits.Add(1)
		return
	}
	metrics.CacheMisses.Add(1)
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
