// Package activity stores the append-only audit trail.
package activity

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/tourism/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithContext returns a copy of the repository whose queries use ctx.
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}

// LogAdmin saves a back-office audit row.
func (r *Repository) LogAdmin(entry *entities.AdminActivity) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.Create(entry).Error
}

// LogCloud saves a customer or guest audit row.
func (r *Repository) LogCloud(entry *entities.CloudActivity) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.Create(entry).Error
}

// RecentAdmin returns the latest back-office rows, most recent first.
func (r *Repository) RecentAdmin(limit int) ([]entities.AdminActivity, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []entities.AdminActivity
	err := r.db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// RecentCloud returns the latest customer rows, optionally for one user.
func (r *Repository) RecentCloud(userID uint, limit int) ([]entities.CloudActivity, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.Order("created_at DESC").Order("id DESC").Limit(limit)
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	var rows []entities.CloudActivity
	err := query.Find(&rows).Error
	return rows, err
}
