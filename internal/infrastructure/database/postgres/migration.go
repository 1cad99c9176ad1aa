// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/checkout"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for the storefront's own tables
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	models := []interface{}{
		&checkout.Attempt{},
	}

	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates the composite indexes gorm tags cannot express
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_checkout_attempts_session_started ON checkout_attempts(session_id, started_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_checkout_attempts_failed ON checkout_attempts(state, started_at DESC) WHERE state = 'failed'",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warnf("Failed to create index: %s", indexSQL)
			continue
		}
	}

	return nil
}

// CleanupAttempts deletes journal rows older than the given number of days
func (m *Migration) CleanupAttempts(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %d days", olderThanDays)
	}

	result := m.db.WithContext(ctx).Exec(
		"DELETE FROM checkout_attempts WHERE started_at < NOW() - make_interval(days => ?)",
		olderThanDays,
	)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clean up checkout attempts: %w", result.Error)
	}

	m.logger.WithField("deleted", result.RowsAffected).Info("Old checkout attempts removed")
	return result.RowsAffected, nil
}

// RunAttemptCleanup runs CleanupAttempts now and then on every tick until ctx
// is done. Failures are logged and retried on the next tick.
func (m *Migration) RunAttemptCleanup(ctx context.Context, every time.Duration, olderThanDays int) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if _, err := m.CleanupAttempts(ctx, olderThanDays); err != nil && ctx.Err() == nil {
			m.logger.WithError(err).Warn("Checkout attempt cleanup failed")
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
