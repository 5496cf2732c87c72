// Package toolutil provides shared helpers for go_video MCP tools: input
// normalisation and mapping facade outcomes onto tool output statuses.
package toolutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_video/internal/engine"
)

// Tool output statuses.
const (
	StatusOK            = "ok"
	StatusDisabled      = "disabled"
	StatusNotConfigured = "not_configured"
	StatusNotFound      = "not_found"
)

// NormLang normalises a language field: "all" and empty mean no filter.
func NormLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "all" {
		return ""
	}
	return lang
}

// SplitIDs accepts ids as a comma- or whitespace-separated list.
func SplitIDs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
}

// Outcome maps a facade call's gate state and error onto a tool status and a
// human-readable message. Policy outcomes and not-found answers become
// statuses; every other error is returned for the tool to fail with.
func Outcome(state engine.GateState, err error) (status, message string, fatal error) {
	switch {
	case errors.Is(err, engine.ErrNotConfigured) || (err == nil && state == engine.GateNotConfigured):
		return StatusNotConfigured, "YouTube API key is not configured; set YOUTUBE_API_KEY or use provider_set", nil
	case errors.Is(err, engine.ErrFeatureDisabled) || (err == nil && state == engine.GateDisabled):
		return StatusDisabled, "YouTube provider is disabled by an administrator", nil
	case errors.Is(err, engine.ErrNotFound):
		return StatusNotFound, err.Error(), nil
	case err != nil:
		return "", "", describe(err)
	}
	return StatusOK, "", nil
}

// describe rewrites upstream failures into messages an agent can act on.
func describe(err error) error {
	var apiErr *engine.APIError
	if errors.As(err, &apiErr) {
		if reason := apiErr.Reason(); reason != "" {
			return fmt.Errorf("youtube api: status %d (%s): %w", apiErr.StatusCode, reason, err)
		}
		return fmt.Errorf("youtube api: status %d: %w", apiErr.StatusCode, err)
	}
	var valErr *engine.ValidationError
	if errors.As(err, &valErr) {
		return err
	}
	return fmt.Errorf("youtube api: %w", err)
}
