package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"media-fetch-bot/internal/domain"
)

// CacheRepository implements domain.ResolutionCache using PostgreSQL.
type CacheRepository struct {
	db *gorm.DB
}

// NewCacheRepository creates a new PostgreSQL cache repository.
func NewCacheRepository(db *gorm.DB) *CacheRepository {
	return &CacheRepository{db: db}
}

// Get returns the entry for url, or nil if none is stored.
func (r *CacheRepository) Get(ctx context.Context, url string) (*domain.CacheEntry, error) {
	var model CacheEntryModel
	err := r.db.WithContext(ctx).Where("url = ?", url).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting cache entry: %w", err)
	}

	return model.ToDomain(), nil
}

// Put inserts or replaces the entry for its source URL.
func (r *CacheRepository) Put(ctx context.Context, entry *domain.CacheEntry) error {
	model := CacheEntryFromDomain(entry)
	model.UpdatedAt = time.Now().UTC()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"platform", "kind", "video_url", "audio_url", "title", "caption",
			"item_urls", "item_types", "created_at", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("upserting cache entry: %w", err)
	}

	return nil
}

// Count returns the number of cached URLs.
func (r *CacheRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&CacheEntryModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}

	return count, nil
}
