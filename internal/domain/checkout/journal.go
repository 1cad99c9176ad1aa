// internal/domain/checkout/journal.go
package checkout

import (
	"context"
	"fmt"

	"github.com/your-org/music-storefront/internal/domain/identity"
	"gorm.io/gorm"
)

// Journal records checkout attempts
type Journal interface {
	Record(ctx context.Context, attempt *Attempt) error
	Recent(ctx context.Context, owner Owner, limit int) ([]Attempt, error)
}

// Owner selects whose attempts are listed. A username spans every session
// the user logged in with; a bare session id covers that session only.
type Owner struct {
	SessionID string
	Username  string
}

// OwnerOf returns the journal owner for an identity
func OwnerOf(id identity.Identity) Owner {
	if id.IsUser() && id.Username != "" {
		return Owner{Username: id.Username}
	}
	return Owner{SessionID: id.SessionID}
}

// GormJournal keeps the journal in PostgreSQL
type GormJournal struct {
	db *gorm.DB
}

// NewGormJournal creates a journal on db
func NewGormJournal(db *gorm.DB) *GormJournal {
	return &GormJournal{db: db}
}

// Record inserts one finished attempt
func (j *GormJournal) Record(ctx context.Context, attempt *Attempt) error {
	if !attempt.State.IsTerminal() {
		return fmt.Errorf("checkout attempt in state %s is not finished", attempt.State)
	}
	if err := j.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("failed to record checkout attempt: %w", err)
	}
	return nil
}

// Recent returns the latest attempts of owner, newest first
func (j *GormJournal) Recent(ctx context.Context, owner Owner, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 10
	}

	query := j.db.WithContext(ctx)
	if owner.Username != "" {
		query = query.Where("username = ?", owner.Username)
	} else {
		query = query.Where("session_id = ?", owner.SessionID)
	}

	var attempts []Attempt
	err := query.
		Order("started_at DESC").
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout attempts: %w", err)
	}
	return attempts, nil
}
