package engine

import "strings"

// --- Feature gate ---

// GateState is the admin-controlled availability of an upstream provider.
type GateState int

const (
	// GateEnabled permits upstream calls.
	GateEnabled GateState = iota
	// GateDisabled means an admin deliberately switched the provider off.
	GateDisabled
	// GateNotConfigured means the provider is missing credentials; fixable by the user.
	GateNotConfigured
)

func (s GateState) String() string {
	switch s {
	case GateEnabled:
		return "enabled"
	case GateDisabled:
		return "disabled"
	case GateNotConfigured:
		return "not_configured"
	}
	return "unknown"
}

// ParseGateState is the inverse of GateState.String. Unknown input maps to GateDisabled.
func ParseGateState(s string) GateState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enabled", "true", "on", "1":
		return GateEnabled
	case "not_configured":
		return GateNotConfigured
	}
	return GateDisabled
}
