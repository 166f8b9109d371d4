// Package catalog serves the public package pages and the customer booking
// flow: search, package detail, booking with its payment, and the booking
// history shown on the customer's pages.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/tourism/internal/activity"
	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/database"
	"github.com/mrlokans/tourism/internal/database/bookings"
	"github.com/mrlokans/tourism/internal/database/packages"
	"github.com/mrlokans/tourism/internal/database/reports"
	"github.com/mrlokans/tourism/internal/entities"
)

const (
	DefaultFeaturedLimit = 3
	RecentBookingsLimit  = 5
)

// TravelDateLayout is the format of booking travel dates.
const TravelDateLayout = "2006-01-02"

// DB is the request connection the service works on. *database.Conn
// implements it.
type DB interface {
	database.Querier
	Gorm() *gorm.DB
}

// BookingRequest is a customer's booking form.
type BookingRequest struct {
	UserID     uint
	PackageID  uint
	Name       string
	Email      string
	TravelDate string
	Persons    int
}

// Receipt is the result of a confirmed booking.
type Receipt struct {
	Booking *entities.Booking
	Payment *entities.Payment
}

// Dashboard is the customer landing page after login.
type Dashboard struct {
	Trips  reports.TripStats
	Recent []reports.UserBooking
}

type Service struct {
	db       DB
	packages *packages.Repository
	reports  *reports.Repository
	activity *activity.Recorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(db DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:       db,
		packages: packages.NewRepository(db.Gorm()),
		reports:  reports.NewRepository(db),
		activity: activity.NewRecorder(db.Gorm(), logger),
		logger:   logger,
		now:      time.Now,
	}
}

// ListFeatured returns the newest packages for the home page.
func (s *Service) ListFeatured(limit int) ([]entities.TourPackage, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	pkgs, err := s.packages.Latest(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured packages: %w", err)
	}
	return pkgs, nil
}

// Search matches query against package titles and locations ignoring case.
// A blank query lists every package.
func (s *Service) Search(query string) ([]entities.TourPackage, error) {
	pkgs, err := s.packages.Search(query)
	if err != nil {
		return nil, fmt.Errorf("failed to search packages: %w", err)
	}
	return pkgs, nil
}

func (s *Service) GetPackage(id uint) (*entities.TourPackage, error) {
	return s.packages.GetByID(id)
}

func (r BookingRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" ||
		strings.TrimSpace(r.Email) == "" ||
		strings.TrimSpace(r.TravelDate) == "" ||
		r.Persons < 1 {
		return fmt.Errorf("%w: Please fill all fields.", apperr.ErrValidation)
	}
	if _, err := time.Parse(TravelDateLayout, strings.TrimSpace(r.TravelDate)); err != nil {
		return fmt.Errorf("%w: Please pick a valid travel date.", apperr.ErrValidation)
	}
	return nil
}

// BookPackage confirms a booking and its payment in one transaction. The
// amount is the package price times the number of persons. Any write
// failure rolls everything back and returns ErrTransactionFailure.
func (s *Service) BookPackage(ctx context.Context, req BookingRequest) (*Receipt, error) {
	pkg, err := s.packages.GetByID(req.PackageID)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	amount := pkg.Price * float64(req.Persons)
	booking := &entities.Booking{
		UserID:       req.UserID,
		PackageID:    pkg.ID,
		PackageTitle: pkg.Title,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		TravelDate:   strings.TrimSpace(req.TravelDate),
		Persons:      req.Persons,
		Status:       entities.BookingStatusConfirmed,
	}
	payment := &entities.Payment{
		UserID:        req.UserID,
		Amount:        amount,
		PaymentStatus: entities.PaymentStatusSuccess,
		PaymentMethod: entities.PaymentMethodOnline,
	}

	err = s.db.Gorm().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := bookings.NewRepository(tx)
		if err := repo.CreateBooking(booking); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		payment.BookingID = booking.ID
		if err := repo.CreatePayment(payment); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		if err := repo.SetStatus(booking.ID, entities.BookingStatusConfirmed); err != nil {
			return fmt.Errorf("confirm booking: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("booking transaction failed",
			zap.Uint("user_id", req.UserID),
			zap.Uint("package_id", pkg.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: Something went wrong during booking!", apperr.ErrTransactionFailure)
	}

	s.activity.Record(ctx, activity.ID(req.UserID), activity.RoleUser,
		fmt.Sprintf("Booked package: %s | Amount: ₹%.2f", pkg.Title, amount))

	return &Receipt{Booking: booking, Payment: payment}, nil
}

// MyBookings returns the customer's bookings, newest first, including
// bookings whose package has since been deleted.
func (s *Service) MyBookings(ctx context.Context, userID uint) ([]reports.UserBooking, error) {
	return s.reports.UserBookings(ctx, userID)
}

// UserDashboard counts the customer's trips around today and lists the
// most recent bookings.
func (s *Service) UserDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	today := s.now().Format(TravelDateLayout)
	stats, err := s.reports.TripStats(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	recent, err := s.reports.RecentUserBookings(ctx, userID, RecentBookingsLimit)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Trips: stats, Recent: recent}, nil
}
