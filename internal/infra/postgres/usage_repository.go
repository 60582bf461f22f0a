package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"media-fetch-bot/internal/domain"
)

// UsageRepository implements domain.UsageLedger using PostgreSQL.
type UsageRepository struct {
	db *gorm.DB
}

// NewUsageRepository creates a new PostgreSQL usage repository.
func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Increment adds one to the platform counter, creating it on first use.
func (r *UsageRepository) Increment(ctx context.Context, platform domain.Platform) error {
	model := &UsageCounterModel{Platform: string(platform), Count: 1}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count":      gorm.Expr("usage_stats.count + 1"),
			"updated_at": time.Now().UTC(),
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("incrementing %s counter: %w", platform, err)
	}

	return nil
}

// AppendLog records one successful request.
func (r *UsageRepository) AppendLog(ctx context.Context, platform domain.Platform, url string) error {
	model := &RequestLogModel{
		ID:        uuid.New().String(),
		Platform:  string(platform),
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("appending request log: %w", err)
	}

	return nil
}

// CountSince returns the number of requests logged for platform at or after since.
func (r *UsageRepository) CountSince(ctx context.Context, platform domain.Platform, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RequestLogModel{}).
		Where("platform = ? AND created_at >= ?", string(platform), since.UTC()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting %s requests: %w", platform, err)
	}

	return count, nil
}

// Counters returns every platform counter ordered by platform.
func (r *UsageRepository) Counters(ctx context.Context) ([]domain.UsageCounter, error) {
	var models []UsageCounterModel
	if err := r.db.WithContext(ctx).Order("platform").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing counters: %w", err)
	}

	counters := make([]domain.UsageCounter, len(models))
	for i, m := range models {
		counters[i] = m.ToDomain()
	}

	return counters, nil
}

// Recent returns the latest request log entries, newest first.
func (r *UsageRepository) Recent(ctx context.Context, limit int) ([]domain.RequestLogEntry, error) {
	var models []RequestLogModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing recent requests: %w", err)
	}

	entries := make([]domain.RequestLogEntry, len(models))
	for i, m := range models {
		entries[i] = m.ToDomain()
	}

	return entries, nil
}
