package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createURLCacheTable creates the resolution cache keyed by source URL.
// Slide items are stored as two parallel text arrays.
func createURLCacheTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_url_cache",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS url_cache (
					url TEXT PRIMARY KEY,
					platform VARCHAR(20) NOT NULL,
					kind VARCHAR(10) NOT NULL,
					video_url TEXT,
					audio_url TEXT,
					title TEXT,
					caption TEXT,
					item_urls TEXT[],
					item_types TEXT[],
					created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			return tx.Exec("CREATE INDEX IF NOT EXISTS idx_url_cache_platform ON url_cache(platform);").Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS url_cache;").Error
		},
	}
}
