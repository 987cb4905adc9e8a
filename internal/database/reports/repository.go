package reports

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/fintrack/internal/entities"
)

// ErrNotFound is returned when a report does not exist for the user.
var ErrNotFound = errors.New("report not found")

const defaultListLimit = 20

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save stores a generated report.
func (r *Repository) Save(ctx context.Context, report *entities.AIReport) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(report).Error
}

// ListForUser returns a user's reports, most recent first.
func (r *Repository) ListForUser(ctx context.Context, userID uint, limit int) ([]entities.AIReport, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var reports []entities.AIReport
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

// GetForUser retrieves one report, scoped to its owner.
func (r *Repository) GetForUser(ctx context.Context, id, userID uint) (*entities.AIReport, error) {
	var report entities.AIReport
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// DeleteForUser removes one report owned by userID.
func (r *Repository) DeleteForUser(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entities.AIReport{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOlderThan removes reports created before the cutoff.
// Returns the number of deleted reports.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entities.AIReport{})
	return result.RowsAffected, result.Error
}
