package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/fintrack/internal/entities"
)

const defaultListLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// ListForUser returns a user's events, most recent first.
func (r *Repository) ListForUser(ctx context.Context, userID uint, limit int) ([]entities.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var events []entities.AuditEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// DeleteOlderThan removes audit events created before the cutoff.
// Returns the number of deleted events.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
