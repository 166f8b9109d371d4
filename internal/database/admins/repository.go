// Package admins provides database operations for back-office accounts.
package admins

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(admin *entities.Admin) error {
	return r.db.Create(admin).Error
}

func (r *Repository) GetByID(id uint) (*entities.Admin, error) {
	var admin entities.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}

func (r *Repository) GetByEmail(email string) (*entities.Admin, error) {
	var admin entities.Admin
	if err := r.db.Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&entities.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) EmailTakenByOther(email string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Admin{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile overwrites name, email and phone.
func (r *Repository) UpdateProfile(id uint, fullname, email, phone string) error {
	res := r.db.Model(&entities.Admin{}).Where("id = ?", id).Updates(map[string]any{
		"fullname": fullname,
		"email":    email,
		"phone":    phone,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: admin", apperr.ErrNotFound)
	}
	return nil
}

func (r *Repository) UpdatePasswordHash(id uint, hash string) error {
	return r.db.Model(&entities.Admin{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Admin{}).Count(&count).Error
	return count, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: admin", apperr.ErrNotFound)
	}
	return err
}
