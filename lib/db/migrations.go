package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/icco/podcast/models"
	"gorm.io/gorm"
)

var (
	// tablesToDrop are left over from earlier schema tooling.
	tablesToDrop = []string{
		"alembic_version",
	}
	additionalIndexes = []string{
		"CREATE INDEX IF NOT EXISTS idx_appearances_episode_guest ON appearances(episode_id, guest_id)",
		"CREATE INDEX IF NOT EXISTS idx_episodes_number ON episodes(number)",
	}
)

// RunMigrations brings the schema up to date: episodes, guests and
// appearances with cascading foreign keys and the rating check constraint.
func RunMigrations(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		enableSQLiteOptimizations(ctx, db, logger)
	}

	// Parents first so the appearances foreign keys have targets.
	if err := db.WithContext(ctx).AutoMigrate(&models.Episode{}, &models.Guest{}, &models.Appearance{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, table := range tablesToDrop {
		if err := dropTableIfExists(ctx, db, table, logger); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	if err := createAdditionalIndexes(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to create additional indexes: %w", err)
	}

	return nil
}

func dropTableIfExists(ctx context.Context, db *gorm.DB, tableName string, logger *slog.Logger) error {
	if err := db.WithContext(ctx).Exec("DROP TABLE IF EXISTS " + tableName).Error; err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	logger.DebugContext(ctx, "Dropped table if present", slog.String("table", tableName))
	return nil
}

// enableSQLiteOptimizations applies per-database pragmas. Failures are logged
// and skipped. foreign_keys is also set in the DSN since it is per connection.
func enableSQLiteOptimizations(ctx context.Context, db *gorm.DB, logger *slog.Logger) {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if err := db.WithContext(ctx).Exec(pragma).Error; err != nil {
			logger.WarnContext(ctx, "Failed to execute pragma", slog.String("pragma", pragma), slog.Any("error", err))
			continue
		}
		logger.DebugContext(ctx, "Executed pragma", slog.String("pragma", pragma))
	}
}

func createAdditionalIndexes(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	for _, indexSQL := range additionalIndexes {
		if err := db.WithContext(ctx).Exec(indexSQL).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		logger.DebugContext(ctx, "Created index", slog.String("sql", indexSQL))
	}
	return nil
}
