// Package bookings persists bookings and the payments attached to them.
//
// The repository does not open transactions itself. Callers that need the
// booking, payment and confirmation to commit together construct it on a
// transaction handle:
//
//	err := conn.Gorm().Transaction(func(tx *gorm.DB) error {
//		repo := bookings.NewRepository(tx)
//		...
//	})
package bookings

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

func (r *Repository) CreateBooking(b *entities.Booking) error {
	return r.db.Create(b).Error
}

func (r *Repository) CreatePayment(p *entities.Payment) error {
	return r.db.Create(p).Error
}

// SetStatus writes the booking status explicitly.
func (r *Repository) SetStatus(bookingID uint, status string) error {
	res := r.db.Model(&entities.Booking{}).Where("id = ?", bookingID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: booking %d", apperr.ErrNotFound, bookingID)
	}
	return nil
}

func (r *Repository) GetByID(id uint) (*entities.Booking, error) {
	var b entities.Booking
	if err := r.db.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %d", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &b, nil
}

// PaymentFor returns the payment recorded for a booking.
func (r *Repository) PaymentFor(bookingID uint) (*entities.Payment, error) {
	var p entities.Payment
	if err := r.db.Where("booking_id = ?", bookingID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment for booking %d", apperr.ErrNotFound, bookingID)
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Booking{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountPayments() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Payment{}).Count(&count).Error
	return count, err
}
