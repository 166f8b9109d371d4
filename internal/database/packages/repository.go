// Package packages provides database operations for tour packages.
package packages

import (
	"errors"
	"fmt"
	"strings"

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

// List returns every package.
func (r *Repository) List() ([]entities.TourPackage, error) {
	var pkgs []entities.TourPackage
	err := r.db.Order("id").Find(&pkgs).Error
	return pkgs, err
}

// Latest returns up to limit packages, newest first.
func (r *Repository) Latest(limit int) ([]entities.TourPackage, error) {
	var pkgs []entities.TourPackage
	err := r.db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&pkgs).Error
	return pkgs, err
}

// likeEscaper makes LIKE wildcards in a search query literal. '!' is the
// escape character because a backslash literal is read differently by MySQL.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search matches query case-insensitively against title or location.
// A blank query returns the same rows as List.
func (r *Repository) Search(query string) ([]entities.TourPackage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.List()
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	var pkgs []entities.TourPackage
	err := r.db.
		Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(location) LIKE ? ESCAPE '!'", pattern, pattern).
		Order("id").
		Find(&pkgs).Error
	return pkgs, err
}

func (r *Repository) GetByID(id uint) (*entities.TourPackage, error) {
	var pkg entities.TourPackage
	if err := r.db.First(&pkg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: package %d", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *Repository) Create(pkg *entities.TourPackage) error {
	return r.db.Create(pkg).Error
}

// Replace overwrites every editable field of package id.
func (r *Repository) Replace(id uint, pkg *entities.TourPackage) error {
	res := r.db.Model(&entities.TourPackage{}).Where("id = ?", id).Updates(map[string]any{
		"title":       pkg.Title,
		"location":    pkg.Location,
		"description": pkg.Description,
		"price":       pkg.Price,
		"days":        pkg.Days,
		"image_url":   pkg.ImageURL,
		"status":      pkg.Status,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: package %d", apperr.ErrNotFound, id)
	}
	return nil
}

// Delete removes package id. Bookings that reference it are left alone.
func (r *Repository) Delete(id uint) error {
	res := r.db.Delete(&entities.TourPackage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: package %d", apperr.ErrNotFound, id)
	}
	return nil
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.TourPackage{}).Count(&count).Error
	return count, err
}
