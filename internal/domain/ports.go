package domain

import (
	"context"
	"time"
)

// Provider resolves a source URL through one third-party extraction API.
// Implementations: internal/infra/provider/client.go
type Provider interface {
	// Name returns the unique identifier for this provider.
	Name() string

	// Fetch calls the provider and normalizes its response.
	// Returns an error wrapping ErrNoMedia when the provider answered without usable media.
	Fetch(ctx context.Context, sourceURL string) (*MediaResult, error)
}

// ProviderTable maps a classified request to its ordered candidate providers.
// Implementations: internal/infra/provider/registry/
type ProviderTable interface {
	// ProvidersFor returns candidates in priority order. Unconfigured providers are omitted.
	ProvidersFor(platform Platform, contentType ContentType) []Provider
}

// ResolutionCache stores the last successful resolution per source URL.
// Implementations: internal/infra/postgres/cache_repository.go, internal/infra/redis/resolution_cache.go
type ResolutionCache interface {
	// Get returns the entry for url, or nil if there is none.
	Get(ctx context.Context, url string) (*CacheEntry, error)

	// Put upserts the entry for url, replacing any previous one. Entries never expire.
	Put(ctx context.Context, entry *CacheEntry) error
}

// UsageLedger records successful resolutions for reporting.
// Implementations: internal/infra/postgres/usage_repository.go
type UsageLedger interface {
	// Increment adds one to the platform counter.
	Increment(ctx context.Context, platform Platform) error

	// AppendLog appends a timestamped request log entry.
	AppendLog(ctx context.Context, platform Platform, url string) error

	// CountSince returns the number of log entries for platform at or after since.
	CountSince(ctx context.Context, platform Platform, since time.Time) (int64, error)

	// Counters returns all platform counters.
	Counters(ctx context.Context) ([]UsageCounter, error)
}
