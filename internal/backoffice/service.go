// Package backoffice implements the admin console: the dashboard figures,
// package maintenance, the booking, user and feedback listings, and the
// admin's own profile.
package backoffice

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/tourism/internal/activity"
	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/database"
	activityRepo "github.com/mrlokans/tourism/internal/database/activity"
	"github.com/mrlokans/tourism/internal/database/admins"
	"github.com/mrlokans/tourism/internal/database/feedback"
	"github.com/mrlokans/tourism/internal/database/packages"
	"github.com/mrlokans/tourism/internal/database/reports"
	"github.com/mrlokans/tourism/internal/entities"
)

// NotProvided is shown for profile fields left empty.
const NotProvided = "Not Provided"

const recentActivityLimit = 10

// DB is the request connection the service works on. *database.Conn
// implements it.
type DB interface {
	database.Querier
	Gorm() *gorm.DB
	IsDuplicateKey(err error) bool
}

type DashboardStats struct {
	Users    int64
	Bookings int64
	Revenue  float64
	Feedback int64
	Activity []entities.AdminActivity
}

// PackageForm carries the editable fields of a package.
type PackageForm struct {
	Title       string
	Location    string
	Description string
	Price       float64
	Days        int
	ImageURL    string
	Status      string
}

type ProfileStats struct {
	Packages int64
	Bookings int64
	Feedback int64
}

// Profile is an admin account prepared for display, with fallbacks
// applied to the optional fields.
type Profile struct {
	ID       uint
	Fullname string
	Email    string
	Phone    string
	Role     string
	Avatar   string
	Stats    ProfileStats
}

type Service struct {
	db       DB
	packages *packages.Repository
	admins   *admins.Repository
	feedback *feedback.Repository
	reports  *reports.Repository
	history  *activityRepo.Repository
	activity *activity.Recorder
	logger   *zap.Logger
}

func NewService(db DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:       db,
		packages: packages.NewRepository(db.Gorm()),
		admins:   admins.NewRepository(db.Gorm()),
		feedback: feedback.NewRepository(db.Gorm()),
		reports:  reports.NewRepository(db),
		history:  activityRepo.NewRepository(db.Gorm()),
		activity: activity.NewRecorder(db.Gorm(), logger),
		logger:   logger,
	}
}

// Dashboard gathers the console's headline figures. Revenue, feedback and
// the activity feed degrade to empty values when their query fails.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	users, err := s.reports.Count(ctx, reports.TableUsers)
	if err != nil {
		return nil, err
	}
	bookings, err := s.reports.Count(ctx, reports.TableBookings)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{Users: users, Bookings: bookings}

	if stats.Revenue, err = s.reports.Revenue(ctx); err != nil {
		s.logger.Warn("dashboard revenue unavailable", zap.Error(err))
		stats.Revenue = 0
	}
	if stats.Feedback, err = s.reports.Count(ctx, reports.TableFeedback); err != nil {
		s.logger.Warn("dashboard feedback count unavailable", zap.Error(err))
		stats.Feedback = 0
	}
	if stats.Activity, err = s.history.WithContext(ctx).RecentAdmin(recentActivityLimit); err != nil {
		s.logger.Warn("dashboard activity unavailable", zap.Error(err))
		stats.Activity = nil
	}
	return stats, nil
}

func (s *Service) Packages() ([]entities.TourPackage, error) {
	return s.packages.List()
}

func (s *Service) GetPackage(id uint) (*entities.TourPackage, error) {
	return s.packages.GetByID(id)
}

func (f PackageForm) toEntity() (*entities.TourPackage, error) {
	title := strings.TrimSpace(f.Title)
	location := strings.TrimSpace(f.Location)
	if title == "" || location == "" {
		return nil, fmt.Errorf("%w: All fields marked * are required.", apperr.ErrValidation)
	}
	if f.Price < 0 {
		return nil, fmt.Errorf("%w: Price cannot be negative.", apperr.ErrValidation)
	}
	if f.Days < 1 {
		return nil, fmt.Errorf("%w: Days must be at least 1.", apperr.ErrValidation)
	}

	pkg := &entities.TourPackage{
		Title:       title,
		Location:    location,
		Description: strings.TrimSpace(f.Description),
		Price:       f.Price,
		Days:        f.Days,
		ImageURL:    strings.TrimSpace(f.ImageURL),
		Status:      strings.TrimSpace(f.Status),
	}
	if pkg.ImageURL == "" {
		pkg.ImageURL = entities.DefaultPackageImage
	}
	if pkg.Status == "" {
		pkg.Status = entities.PackageStatusAvailable
	}
	return pkg, nil
}

func (s *Service) CreatePackage(ctx context.Context, adminID uint, form PackageForm) (*entities.TourPackage, error) {
	pkg, err := form.toEntity()
	if err != nil {
		return nil, err
	}
	if err := s.packages.Create(pkg); err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}
	s.activity.Record(ctx, activity.ID(adminID), activity.RoleAdmin, "Added new package: "+pkg.Title)
	return pkg, nil
}

// UpdatePackage replaces every editable field of package id.
func (s *Service) UpdatePackage(ctx context.Context, adminID, id uint, form PackageForm) error {
	pkg, err := form.toEntity()
	if err != nil {
		return err
	}
	if err := s.packages.Replace(id, pkg); err != nil {
		return err
	}
	s.activity.Record(ctx, activity.ID(adminID), activity.RoleAdmin, fmt.Sprintf("Edited package ID %d", id))
	return nil
}

// DeletePackage removes package id and returns it as it was. Bookings of
// the package stay in place.
func (s *Service) DeletePackage(ctx context.Context, adminID, id uint) (*entities.TourPackage, error) {
	pkg, err := s.packages.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.packages.Delete(id); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, activity.ID(adminID), activity.RoleAdmin, fmt.Sprintf("Deleted package ID %d", id))
	return pkg, nil
}

func (s *Service) Bookings(ctx context.Context) ([]reports.AdminBooking, error) {
	return s.reports.AllBookings(ctx)
}

func (s *Service) Users(ctx context.Context) ([]reports.UserSummary, error) {
	return s.reports.Users(ctx)
}

func (s *Service) Feedback() ([]entities.Feedback, error) {
	return s.feedback.ListNewest()
}

func (s *Service) GetAdmin(id uint) (*entities.Admin, error) {
	return s.admins.GetByID(id)
}

func (s *Service) Profile(ctx context.Context, adminID uint) (*Profile, error) {
	admin, err := s.admins.GetByID(adminID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		ID:       admin.ID,
		Fullname: admin.Fullname,
		Email:    admin.Email,
		Phone:    admin.Phone,
		Role:     admin.DisplayRole(),
		Avatar:   admin.DisplayAvatar(),
	}
	if strings.TrimSpace(profile.Phone) == "" {
		profile.Phone = NotProvided
	}

	counts := []struct {
		table string
		dst   *int64
	}{
		{reports.TablePackages, &profile.Stats.Packages},
		{reports.TableBookings, &profile.Stats.Bookings},
		{reports.TableFeedback, &profile.Stats.Feedback},
	}
	for _, c := range counts {
		if *c.dst, err = s.reports.Count(ctx, c.table); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// UpdateProfile overwrites the admin's name, email and phone.
func (s *Service) UpdateProfile(ctx context.Context, adminID uint, fullname, email, phone string) error {
	fullname = strings.TrimSpace(fullname)
	email = strings.TrimSpace(email)
	if fullname == "" || email == "" {
		return fmt.Errorf("%w: Name and email are required.", apperr.ErrValidation)
	}

	taken, err := s.admins.EmailTakenByOther(email, adminID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return fmt.Errorf("%w: Email already exists.", apperr.ErrDuplicateEmail)
	}

	if err := s.admins.UpdateProfile(adminID, fullname, email, strings.TrimSpace(phone)); err != nil {
		if s.db.IsDuplicateKey(err) {
			return fmt.Errorf("%w: Email already exists.", apperr.ErrDuplicateEmail)
		}
		return err
	}
	s.activity.Record(ctx, activity.ID(adminID), activity.RoleAdmin, "Updated profile")
	return nil
}
