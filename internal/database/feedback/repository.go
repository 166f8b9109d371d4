// Package feedback stores contact form submissions.
package feedback

import (
	"gorm.io/gorm"

	"github.com/mrlokans/tourism/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(f *entities.Feedback) error {
	return r.db.Create(f).Error
}

// ListNewest returns all feedback, most recent first.
func (r *Repository) ListNewest() ([]entities.Feedback, error) {
	var items []entities.Feedback
	err := r.db.Order("created_at DESC").Order("id DESC").Find(&items).Error
	return items, err
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Feedback{}).Count(&count).Error
	return count, err
}
