package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createUsageTables creates the per-platform counters and the request log
// used for windowed counts.
func createUsageTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_create_usage_tables",
		Migrate: func(tx *gorm.DB) error {
			statements := []string{
				`CREATE TABLE IF NOT EXISTS usage_stats (
					platform VARCHAR(20) PRIMARY KEY,
					count BIGINT NOT NULL DEFAULT 0,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
				);`,
				`CREATE TABLE IF NOT EXISTS request_logs (
					id UUID PRIMARY KEY,
					platform VARCHAR(20) NOT NULL,
					url TEXT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
				);`,
				"CREATE INDEX IF NOT EXISTS idx_request_logs_platform_created ON request_logs(platform, created_at DESC);",
			}

			for _, stmt := range statements {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			if err := tx.Exec("DROP TABLE IF EXISTS request_logs;").Error; err != nil {
				return err
			}

			return tx.Exec("DROP TABLE IF EXISTS usage_stats;").Error
		},
	}
}
