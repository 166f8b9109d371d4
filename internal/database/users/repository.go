// Package users provides database operations for customer accounts.
//
// # Usage
//
//	repo := users.NewRepository(conn.Gorm())
//	user, err := repo.GetByEmail(email)
package users

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. The caller hashes the password.
func (r *Repository) Create(user *entities.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// EmailExists reports whether any user has the email address.
func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&entities.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// EmailTakenByOther reports whether a user other than id owns the email.
func (r *Repository) EmailTakenByOther(email string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ProfileUpdate holds the editable profile fields.
type ProfileUpdate struct {
	Fullname string
	Email    string
	Phone    string
	Location string
}

// UpdateProfile overwrites the editable profile fields.
func (r *Repository) UpdateProfile(id uint, p ProfileUpdate) error {
	res := r.db.Model(&entities.User{}).Where("id = ?", id).Updates(map[string]any{
		"fullname": p.Fullname,
		"email":    p.Email,
		"phone":    p.Phone,
		"location": p.Location,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user", apperr.ErrNotFound)
	}
	return nil
}

// UpdatePasswordHash stores a new password hash.
func (r *Repository) UpdatePasswordHash(id uint, hash string) error {
	return r.db.Model(&entities.User{}).Where("id = ?", id).Update("password_hash", hash).Error
}

// Count returns the number of users.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, what)
	}
	return err
}
