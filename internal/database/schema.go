package database

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mrlokans/tourism/internal/entities"
)

// Seed admin credentials for a fresh installation.
const (
	SeedAdminName     = "Admin"
	SeedAdminEmail    = "admin@demo.com"
	SeedAdminPassword = "admin123"
)

var seedPackages = []entities.TourPackage{
	{
		Title:       "Beach Escape",
		Location:    "Goa",
		Description: "3N/4D seaside fun",
		Price:       12999,
		Days:        4,
		ImageURL:    "https://picsum.photos/seed/goa/800/500",
		Status:      entities.PackageStatusAvailable,
	},
	{
		Title:       "Mountain Retreat",
		Location:    "Manali",
		Description: "4N/5D snow experience",
		Price:       17999,
		Days:        5,
		ImageURL:    "https://picsum.photos/seed/manali/800/500",
		Status:      entities.PackageStatusAvailable,
	},
}

// Initialize creates every table that does not exist yet and seeds the
// default admin and demo packages into empty tables. Running it again
// changes nothing.
func Initialize(ctx context.Context, store *Store, bcryptCost int) error {
	db := store.gormDB.WithContext(ctx)

	if err := db.AutoMigrate(entities.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, stmt := range store.backend.SessionTableDDL() {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create sessions table: %w", err)
		}
	}

	if err := seedAdmin(db, bcryptCost, store.logger); err != nil {
		return err
	}
	if err := seedPackageRows(db, store.logger); err != nil {
		return err
	}

	store.logger.Info("database initialized", zap.String("backend", store.backend.Name()))
	return nil
}

func seedAdmin(db *gorm.DB, cost int, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&entities.Admin{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), cost)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	admin := &entities.Admin{
		Fullname:     SeedAdminName,
		Email:        SeedAdminEmail,
		PasswordHash: string(hash),
		Role:         entities.DefaultAdminRole,
		Avatar:       entities.DefaultAdminAvatar,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create seed admin: %w", err)
	}
	logger.Info("seeded default admin", zap.String("email", SeedAdminEmail))
	return nil
}

func seedPackageRows(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&entities.TourPackage{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count packages: %w", err)
	}
	if count > 0 {
		return nil
	}

	// Create writes ids back into the slice; the template stays untouched.
	rows := make([]entities.TourPackage, len(seedPackages))
	copy(rows, seedPackages)
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed packages: %w", err)
	}
	logger.Info("seeded demo packages", zap.Int("count", len(rows)))
	return nil
}

// InitializeOrWarn runs Initialize and logs a failure instead of returning it.
// Startup uses it so a broken schema degrades requests rather than the process.
func InitializeOrWarn(ctx context.Context, store *Store, bcryptCost int) {
	if err := Initialize(ctx, store, bcryptCost); err != nil {
		store.logger.Error("database initialization failed, continuing", zap.Error(err))
	}
}

// IsNotFound reports whether err is gorm's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
