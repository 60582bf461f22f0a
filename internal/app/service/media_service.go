package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"media-fetch-bot/internal/domain"
	"media-fetch-bot/internal/metrics"
)

// Resolver resolves a URL through the provider chain.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*domain.Resolution, error)
}

// FetchResult is the outcome of MediaService.Fetch.
type FetchResult struct {
	Entry *domain.CacheEntry
	// Cached is true when the entry came from the resolution cache.
	Cached bool
	// Resolution is set only for fresh resolutions.
	Resolution *domain.Resolution
}

// MediaService serves media for a URL cache-first and records usage on every
// fresh success.
type MediaService struct {
	resolver Resolver
	cache    domain.ResolutionCache
	ledger   domain.UsageLedger
	caption  string
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(
	resolver Resolver,
	cache domain.ResolutionCache,
	ledger domain.UsageLedger,
	caption string,
	m *metrics.Metrics,
	logger *zap.Logger,
) *MediaService {
	return &MediaService{
		resolver: resolver,
		cache:    cache,
		ledger:   ledger,
		caption:  caption,
		metrics:  m,
		logger:   logger,
	}
}

// Fetch returns the cached entry for rawURL or resolves it.
//
// Cache and ledger failures are logged and never fail the call: a broken
// cache read falls through to a resolution, and a broken write still returns
// the resolved media.
func (s *MediaService) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	sourceURL := strings.TrimSpace(rawURL)

	entry, err := s.cache.Get(ctx, sourceURL)
	if err != nil {
		s.logger.Error("cache lookup failed", zap.String("url", sourceURL), zap.Error(err))
	}
	if entry != nil {
		s.metrics.IncCacheLookups(metrics.CacheHit)
		s.metrics.IncResolutions(string(entry.Platform), "cached")
		s.logger.Debug("cache hit", zap.String("url", sourceURL))
		return &FetchResult{Entry: entry, Cached: true}, nil
	}
	s.metrics.IncCacheLookups(metrics.CacheMiss)

	res, err := s.resolver.Resolve(ctx, sourceURL)
	if err != nil {
		s.metrics.IncResolutions(platformLabel(sourceURL), string(domain.KindOf(err)))
		return nil, err
	}
	s.metrics.IncResolutions(string(res.Request.Platform), outcomeSuccess)

	entry = domain.NewCacheEntry(res.Request.SourceURL, res.Request.Platform, res.Result, s.caption)
	s.record(ctx, entry)

	return &FetchResult{Entry: entry, Resolution: res}, nil
}

// Cached returns the cache entry for rawURL without resolving. A miss yields nil.
func (s *MediaService) Cached(ctx context.Context, rawURL string) (*domain.CacheEntry, error) {
	entry, err := s.cache.Get(ctx, strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	return entry, nil
}

// record stores the entry and updates the ledger.
func (s *MediaService) record(ctx context.Context, entry *domain.CacheEntry) {
	if err := s.cache.Put(ctx, entry); err != nil {
		s.logger.Error("cache write failed", zap.String("url", entry.SourceURL), zap.Error(err))
	}
	if err := s.ledger.Increment(ctx, entry.Platform); err != nil {
		s.logger.Error("usage increment failed", zap.String("platform", string(entry.Platform)), zap.Error(err))
	}
	if err := s.ledger.AppendLog(ctx, entry.Platform, entry.SourceURL); err != nil {
		s.logger.Error("usage log append failed", zap.String("url", entry.SourceURL), zap.Error(err))
	}
}

// platformLabel classifies rawURL for metrics only.
func platformLabel(rawURL string) string {
	req, _ := domain.Classify(rawURL)
	if req.Platform == "" {
		return "unknown"
	}

	return string(req.Platform)
}
