package postgres

import (
	"time"

	"github.com/lib/pq"

	"media-fetch-bot/internal/domain"
)

// CacheEntryModel is the GORM model for the url_cache table.
type CacheEntryModel struct {
	URL       string         `gorm:"column:url;type:text;primaryKey"`
	Platform  string         `gorm:"type:varchar(20);not null;index"`
	Kind      string         `gorm:"type:varchar(10);not null"`
	VideoURL  string         `gorm:"type:text"`
	AudioURL  string         `gorm:"type:text"`
	Title     string         `gorm:"type:text"`
	Caption   string         `gorm:"type:text"`
	ItemURLs  pq.StringArray `gorm:"column:item_urls;type:text[]"`
	ItemTypes pq.StringArray `gorm:"column:item_types;type:text[]"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

// TableName returns the table name for CacheEntryModel.
func (CacheEntryModel) TableName() string {
	return "url_cache"
}

// ToDomain converts the row back into a cache entry, rebuilding the media result.
func (m *CacheEntryModel) ToDomain() *domain.CacheEntry {
	var media *domain.MediaResult
	switch domain.MediaKind(m.Kind) {
	case domain.MediaKindSlide:
		items := make([]domain.MediaItem, len(m.ItemURLs))
		for i, u := range m.ItemURLs {
			itemType := domain.ItemTypePhoto
			if i < len(m.ItemTypes) && m.ItemTypes[i] != "" {
				itemType = domain.ItemType(m.ItemTypes[i])
			}
			items[i] = domain.MediaItem{URL: u, Type: itemType}
		}
		media = domain.NewSlideItems(items, m.AudioURL)
	default:
		media = domain.NewVideo(m.VideoURL, m.AudioURL, m.Title)
	}

	return &domain.CacheEntry{
		SourceURL: m.URL,
		Platform:  domain.Platform(m.Platform),
		VideoURL:  m.VideoURL,
		AudioURL:  m.AudioURL,
		Caption:   m.Caption,
		Media:     media,
		CreatedAt: m.CreatedAt,
	}
}

// CacheEntryFromDomain creates a CacheEntryModel from a cache entry.
func CacheEntryFromDomain(e *domain.CacheEntry) *CacheEntryModel {
	m := &CacheEntryModel{
		URL:       e.SourceURL,
		Platform:  string(e.Platform),
		Kind:      string(domain.MediaKindVideo),
		VideoURL:  e.VideoURL,
		AudioURL:  e.AudioURL,
		Caption:   e.Caption,
		CreatedAt: e.CreatedAt,
	}

	switch {
	case e.Media.IsSlide():
		m.Kind = string(domain.MediaKindSlide)
		m.ItemURLs = make(pq.StringArray, len(e.Media.Slide.Images))
		m.ItemTypes = make(pq.StringArray, len(e.Media.Slide.Images))
		for i, item := range e.Media.Slide.Images {
			m.ItemURLs[i] = item.URL
			m.ItemTypes[i] = string(item.Type)
		}
	case e.Media.IsVideo():
		m.Title = e.Media.Video.Title
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	return m
}

// UsageCounterModel is the GORM model for the usage_stats table.
type UsageCounterModel struct {
	Platform  string    `gorm:"type:varchar(20);primaryKey"`
	Count     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for UsageCounterModel.
func (UsageCounterModel) TableName() string {
	return "usage_stats"
}

// ToDomain converts UsageCounterModel to domain.UsageCounter.
func (m *UsageCounterModel) ToDomain() domain.UsageCounter {
	return domain.UsageCounter{Platform: domain.Platform(m.Platform), Count: m.Count}
}

// RequestLogModel is the GORM model for the request_logs table.
type RequestLogModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Platform  string    `gorm:"type:varchar(20);not null"`
	URL       string    `gorm:"column:url;type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for RequestLogModel.
func (RequestLogModel) TableName() string {
	return "request_logs"
}

// ToDomain converts RequestLogModel to domain.RequestLogEntry.
func (m *RequestLogModel) ToDomain() domain.RequestLogEntry {
	return domain.RequestLogEntry{
		ID:        m.ID,
		Platform:  domain.Platform(m.Platform),
		SourceURL: m.URL,
		Timestamp: m.CreatedAt,
	}
}
