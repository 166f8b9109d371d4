package bookings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/database/dbtest"
	"github.com/mrlokans/tourism/internal/entities"
)

func newBooking() *entities.Booking {
	return &entities.Booking{
		UserID:       1,
		PackageID:    1,
		PackageTitle: "Beach Escape",
		Name:         "Alice",
		Email:        "alice@x.com",
		TravelDate:   "2030-01-15",
		Persons:      2,
	}
}

func TestRepository_CreateBookingAndPayment(t *testing.T) {
	conn, _ := dbtest.NewConn(t)
	repo := NewRepository(conn.Gorm())

	b := newBooking()
	require.NoError(t, repo.CreateBooking(b))
	require.NotZero(t, b.ID)
	assert.Equal(t, entities.BookingStatusConfirmed, b.Status)
	assert.False(t, b.BookedAt.IsZero())

	p := &entities.Payment{
		BookingID:     b.ID,
		UserID:        b.UserID,
		Amount:        25998,
		PaymentStatus: entities.PaymentStatusSuccess,
		PaymentMethod: entities.PaymentMethodOnline,
	}
	require.NoError(t, repo.CreatePayment(p))

	got, err := repo.PaymentFor(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 25998.0, got.Amount)
	assert.Equal(t, entities.PaymentStatusSuccess, got.PaymentStatus)

	// one payment per booking
	err = repo.CreatePayment(&entities.Payment{BookingID: b.ID, UserID: 1, Amount: 1})
	require.Error(t, err)
	assert.True(t, conn.IsDuplicateKey(err))
}

func TestRepository_SetStatus(t *testing.T) {
	conn, _ := dbtest.NewConn(t)
	repo := NewRepository(conn.Gorm())

	b := newBooking()
	require.NoError(t, repo.CreateBooking(b))

	require.NoError(t, repo.SetStatus(b.ID, entities.BookingStatusPending))
	got, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStatusPending, got.Status)

	err = repo.SetStatus(9999, entities.BookingStatusConfirmed)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRepository_NotFound(t *testing.T) {
	conn, _ := dbtest.NewConn(t)
	repo := NewRepository(conn.Gorm())

	_, err := repo.GetByID(42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.PaymentFor(42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRepository_TransactionRollsBack(t *testing.T) {
	conn, _ := dbtest.NewConn(t)

	boom := errors.New("boom")
	err := conn.Gorm().Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := repo.CreateBooking(newBooking()); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	repo := NewRepository(conn.Gorm())
	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	payments, err := repo.CountPayments()
	require.NoError(t, err)
	assert.Zero(t, payments)
}
