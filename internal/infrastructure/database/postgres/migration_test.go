package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/music-storefront/internal/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestCreateIndexes_ContinuesPastFailures(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("idx_checkout_attempts_session_started")).
		WillReturnError(assert.AnError)
	mock.ExpectExec(regexp.QuoteMeta("idx_checkout_attempts_failed")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewMigration(db, logger.Discard()).CreateIndexes())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupAttempts(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checkout_attempts")).
		WithArgs(30).
		WillReturnResult(sqlmock.NewResult(0, 7))

	deleted, err := NewMigration(db, logger.Discard()).CleanupAttempts(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupAttempts_RejectsNonPositiveRetention(t *testing.T) {
	db, _ := newMockDB(t)

	_, err := NewMigration(db, logger.Discard()).CleanupAttempts(context.Background(), 0)
	assert.Error(t, err)
}

func TestRunAttemptCleanup_RunsUntilCanceled(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checkout_attempts")).
		WithArgs(14).
		WillReturnError(assert.AnError)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checkout_attempts")).
		WithArgs(14).
		WillReturnResult(sqlmock.NewResult(0, 2))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewMigration(db, logger.Discard()).RunAttemptCleanup(ctx, 10*time.Millisecond, 14)
		close(done)
	}()

	// The first run fails and the next tick retries
	assert.Eventually(t, func() bool {
		return mock.ExpectationsWereMet() == nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop after cancel")
	}
}

func TestHealth(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectPing()
	assert.NoError(t, NewFromGorm(db).Health(context.Background()))

	mock.ExpectPing().WillReturnError(assert.AnError)
	assert.Error(t, NewFromGorm(db).Health(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
