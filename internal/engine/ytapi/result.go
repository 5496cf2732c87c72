package ytapi

import (
	"context"

	"github.com/anatolykoptev/go_video/internal/engine"
)

// Result is the facade's return shape. State separates a disabled or
// unconfigured provider from a real answer. Data is meaningful only when OK.
type Result[T any] struct {
	State engine.GateState
	Data  T
}

// OK reports whether the provider was enabled and Data holds upstream data.
func (r Result[T]) OK() bool { return r.State == engine.GateEnabled }

// Gate decides, before any network I/O, whether the upstream may be called.
type Gate interface {
	State(ctx context.Context) engine.GateState
}

// GateFunc adapts a function to Gate.
type GateFunc func(ctx context.Context) engine.GateState

func (f GateFunc) State(ctx context.Context) engine.GateState { return f(ctx) }

// StaticGate always reports the same state.
type StaticGate engine.GateState

func (g StaticGate) State(context.Context) engine.GateState { return engine.GateState(g) }

// keyGate reports NotConfigured while keyFn yields no API key.
func keyGate(keyFn func() string) Gate {
	return GateFunc(func(context.Context) engine.GateState {
		if keyFn() == "" {
			return engine.GateNotConfigured
		}
		return engine.GateEnabled
	})
}
