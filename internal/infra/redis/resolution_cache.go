package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"media-fetch-bot/internal/domain"
)

// ResolutionCache implements domain.ResolutionCache on Redis.
// Entries are stored as JSON without expiry under prefix:url:<source url>.
type ResolutionCache struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
}

// NewResolutionCache creates a new Redis resolution cache.
func NewResolutionCache(client *redis.Client, keyPrefix string, logger *zap.Logger) *ResolutionCache {
	return &ResolutionCache{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
	}
}

// Get returns the entry for url, or nil if none is stored.
func (c *ResolutionCache) Get(ctx context.Context, url string) (*domain.CacheEntry, error) {
	data, err := c.client.Get(ctx, c.key(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting cache entry: %w", err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry is treated as a miss; the next success overwrites it.
		c.logger.Warn("discarding undecodable cache entry", zap.String("url", url), zap.Error(err))
		return nil, nil
	}

	return &entry, nil
}

// Put stores the entry, replacing any previous one.
func (c *ResolutionCache) Put(ctx context.Context, entry *domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	if err := c.client.Set(ctx, c.key(entry.SourceURL), data, 0).Err(); err != nil {
		return fmt.Errorf("setting cache entry: %w", err)
	}

	c.logger.Debug("cache entry stored",
		zap.String("url", entry.SourceURL),
		zap.Int("bytes", len(data)),
	)

	return nil
}

// Count returns the number of cached URLs. It walks the key space with SCAN.
func (c *ResolutionCache) Count(ctx context.Context) (int64, error) {
	var n int64
	iter := c.client.Scan(ctx, 0, c.keyPrefix+":url:*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scanning cache keys: %w", err)
	}

	return n, nil
}

func (c *ResolutionCache) key(url string) string {
	return c.keyPrefix + ":url:" + url
}
