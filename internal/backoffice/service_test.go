package backoffice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/database"
	"github.com/mrlokans/tourism/internal/database/dbtest"
	"github.com/mrlokans/tourism/internal/entities"
)

const seedAdminID uint = 1

type fixture struct {
	conn *database.Conn
	svc  *Service
	logs *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, _ := dbtest.NewConn(t)
	core, logs := observer.New(zapcore.DebugLevel)
	return &fixture{conn: conn, svc: NewService(conn, zap.New(core)), logs: logs}
}

func (f *fixture) create(t *testing.T, values ...any) {
	t.Helper()
	for _, v := range values {
		require.NoError(t, f.conn.Gorm().Create(v).Error)
	}
}

func (f *fixture) adminActions(t *testing.T) []string {
	t.Helper()
	var rows []entities.AdminActivity
	require.NoError(t, f.conn.Gorm().Order("id").Find(&rows).Error)
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Action
	}
	return out
}

func validForm() PackageForm {
	return PackageForm{Title: "Kerala Backwaters", Location: "Alleppey", Description: "Houseboat", Price: 9999, Days: 3}
}

func TestService_Dashboard(t *testing.T) {
	f := newFixture(t)
	user := &entities.User{Fullname: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	f.create(t, user)
	booking := &entities.Booking{UserID: user.ID, PackageID: 1, Name: "Alice", Email: "alice@example.com", TravelDate: "2030-01-01", Persons: 2}
	f.create(t, booking)
	f.create(t,
		&entities.Payment{BookingID: booking.ID, UserID: user.ID, Amount: 100, PaymentStatus: "SUCCESS"},
		&entities.Payment{BookingID: booking.ID + 100, UserID: user.ID, Amount: 50, PaymentStatus: " success "},
		&entities.Payment{BookingID: booking.ID + 200, UserID: user.ID, Amount: 999, PaymentStatus: "FAILED"},
		&entities.Feedback{Name: "Bob", Message: "hi"},
	)
	_, err := f.svc.CreatePackage(context.Background(), seedAdminID, validForm())
	require.NoError(t, err)

	stats, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Users)
	assert.Equal(t, int64(1), stats.Bookings)
	assert.InDelta(t, 150.0, stats.Revenue, 0.001)
	assert.Equal(t, int64(1), stats.Feedback)
	require.Len(t, stats.Activity, 1)
	assert.Equal(t, "Added new package: Kerala Backwaters", stats.Activity[0].Action)
}

func TestService_Dashboard_DegradesRevenueAndFeedback(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.conn.Gorm().Exec("DROP TABLE payments").Error)
	require.NoError(t, f.conn.Gorm().Exec("DROP TABLE feedback").Error)

	stats, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Revenue)
	assert.Zero(t, stats.Feedback)
	assert.Equal(t, 1, f.logs.FilterMessage("dashboard revenue unavailable").Len())
	assert.Equal(t, 1, f.logs.FilterMessage("dashboard feedback count unavailable").Len())
}

func TestService_Dashboard_UserCountFailureIsAnError(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.conn.Gorm().Exec("DROP TABLE users").Error)

	_, err := f.svc.Dashboard(context.Background())
	assert.Error(t, err)
}

func TestService_CreatePackage(t *testing.T) {
	f := newFixture(t)

	pkg, err := f.svc.CreatePackage(context.Background(), seedAdminID, validForm())
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultPackageImage, pkg.ImageURL)
	assert.Equal(t, entities.PackageStatusAvailable, pkg.Status)

	stored, err := f.svc.GetPackage(pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kerala Backwaters", stored.Title)
	assert.Equal(t, []string{"Added new package: Kerala Backwaters"}, f.adminActions(t))

	var logged entities.AdminActivity
	require.NoError(t, f.conn.Gorm().First(&logged).Error)
	require.NotNil(t, logged.AdminID)
	assert.Equal(t, seedAdminID, *logged.AdminID)
	assert.Equal(t, "admin", logged.Role)
}

func TestService_PackageValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PackageForm)
		wantMsg string
	}{
		{"missing title", func(p *PackageForm) { p.Title = "" }, "All fields marked * are required."},
		{"blank location", func(p *PackageForm) { p.Location = "  " }, "All fields marked * are required."},
		{"negative price", func(p *PackageForm) { p.Price = -1 }, "Price cannot be negative."},
		{"zero days", func(p *PackageForm) { p.Days = 0 }, "Days must be at least 1."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			form := validForm()
			tt.mutate(&form)

			_, err := f.svc.CreatePackage(context.Background(), seedAdminID, form)
			require.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.wantMsg, apperr.Message(err))

			err = f.svc.UpdatePackage(context.Background(), seedAdminID, 1, form)
			require.ErrorIs(t, err, apperr.ErrValidation)

			assert.Empty(t, f.adminActions(t))
		})
	}

	t.Run("free package", func(t *testing.T) {
		f := newFixture(t)
		form := validForm()
		form.Price = 0
		_, err := f.svc.CreatePackage(context.Background(), seedAdminID, form)
		assert.NoError(t, err)
	})
}

func TestService_UpdatePackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := validForm()
	form.Status = "Sold Out"
	form.ImageURL = "https://example.com/kerala.jpg"
	require.NoError(t, f.svc.UpdatePackage(ctx, seedAdminID, 1, form))

	pkg, err := f.svc.GetPackage(1)
	require.NoError(t, err)
	assert.Equal(t, "Kerala Backwaters", pkg.Title)
	assert.Equal(t, "Sold Out", pkg.Status)
	assert.Equal(t, 3, pkg.Days)
	assert.Equal(t, "https://example.com/kerala.jpg", pkg.ImageURL)

	err = f.svc.UpdatePackage(ctx, seedAdminID, 999, validForm())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, []string{"Edited package ID 1"}, f.adminActions(t))
}

func TestService_DeletePackage_KeepsBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := &entities.User{Fullname: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	f.create(t, user)
	booking := &entities.Booking{
		UserID: user.ID, PackageID: 1, PackageTitle: "Beach Escape",
		Name: "Alice", Email: "alice@example.com", TravelDate: "2030-01-01", Persons: 1,
	}
	f.create(t, booking)

	deleted, err := f.svc.DeletePackage(ctx, seedAdminID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Beach Escape", deleted.Title)

	_, err = f.svc.GetPackage(1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	rows, err := f.svc.Bookings(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, booking.ID, rows[0].ID)
	assert.Equal(t, "Beach Escape", rows[0].PackageTitle)
	assert.True(t, rows[0].PackageRemoved)
	assert.Equal(t, "Alice", rows[0].UserName)

	_, err = f.svc.DeletePackage(ctx, seedAdminID, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, []string{"Deleted package ID 1"}, f.adminActions(t))
}

func TestService_Listings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.create(t,
		&entities.User{Fullname: "Alice", Email: "alice@example.com", PasswordHash: "secret-hash", Phone: "555"},
		&entities.Feedback{Name: "First", Message: "one"},
		&entities.Feedback{Name: "Second", Message: "two"},
	)

	users, err := f.svc.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "555", users[0].Phone)

	items, err := f.svc.Feedback()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Second", items[0].Name)

	pkgs, err := f.svc.Packages()
	require.NoError(t, err)
	assert.Len(t, pkgs, 2)
}

func TestService_Profile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, &entities.Feedback{Message: "hello"})

	profile, err := f.svc.Profile(ctx, seedAdminID)
	require.NoError(t, err)
	assert.Equal(t, database.SeedAdminEmail, profile.Email)
	assert.Equal(t, NotProvided, profile.Phone)
	assert.Equal(t, entities.DefaultAdminRole, profile.Role)
	assert.Equal(t, entities.DefaultAdminAvatar, profile.Avatar)
	assert.Equal(t, ProfileStats{Packages: 2, Bookings: 0, Feedback: 1}, profile.Stats)

	// empty role and avatar fall back too
	require.NoError(t, f.conn.Gorm().Model(&entities.Admin{}).Where("id = ?", seedAdminID).
		Updates(map[string]any{"role": "", "avatar": "", "phone": "12345"}).Error)
	profile, err = f.svc.Profile(ctx, seedAdminID)
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultAdminRole, profile.Role)
	assert.Equal(t, entities.DefaultAdminAvatar, profile.Avatar)
	assert.Equal(t, "12345", profile.Phone)

	_, err = f.svc.Profile(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, &entities.Admin{Fullname: "Ops", Email: "ops@demo.com", PasswordHash: "x"})

	err := f.svc.UpdateProfile(ctx, seedAdminID, "", "admin@demo.com", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = f.svc.UpdateProfile(ctx, seedAdminID, "Admin", "ops@demo.com", "")
	assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)

	require.NoError(t, f.svc.UpdateProfile(ctx, seedAdminID, "Chief", "chief@demo.com", "777"))
	admin, err := f.svc.GetAdmin(seedAdminID)
	require.NoError(t, err)
	assert.Equal(t, "Chief", admin.Fullname)
	assert.Equal(t, "chief@demo.com", admin.Email)
	assert.Equal(t, "777", admin.Phone)

	assert.Equal(t, []string{"Updated profile"}, f.adminActions(t))
}
