// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"strings"
	"time"
)

// ResolveRequest is the body of POST /api/v1/media/resolve.
type ResolveRequest struct {
	URL string `json:"url" validate:"required,max=2048,source_url"`
}

// CacheRequest represents the query parameters for a cache lookup.
type CacheRequest struct {
	URL string `query:"url" validate:"required,max=2048,source_url"`
}

// StatsRequest represents the query parameters for the usage report.
type StatsRequest struct {
	Window string `query:"window" validate:"omitempty,duration"`
}

// WindowOr returns the requested window, or fallback when none was given.
// Call only after validation.
func (r *StatsRequest) WindowOr(fallback time.Duration) time.Duration {
	if strings.TrimSpace(r.Window) == "" {
		return fallback
	}

	d, err := time.ParseDuration(r.Window)
	if err != nil {
		return fallback
	}

	return d
}
