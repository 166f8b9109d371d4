// Package reports runs the join and aggregate queries behind the booking
// history pages and the admin dashboard. Rows are mapped into typed
// structs through sqlx db tags on the request's connection.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/mrlokans/tourism/internal/database"
)

// UserBooking is one row of a customer's booking history.
type UserBooking struct {
	ID             uint      `db:"id"`
	PackageID      uint      `db:"package_id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	Price          float64   `db:"price"`
	ImageURL       string    `db:"image_url"`
	PackageRemoved bool      `db:"package_removed"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	TravelDate     string    `db:"travel_date"`
	Persons        int       `db:"persons"`
	Status         string    `db:"status"`
	Amount         float64   `db:"amount"`
	BookedAt       time.Time `db:"booked_at"`
}

// AdminBooking is one row of the back-office booking list.
type AdminBooking struct {
	ID             uint      `db:"id"`
	UserName       string    `db:"user_name"`
	UserEmail      string    `db:"user_email"`
	PackageTitle   string    `db:"package_title"`
	PackageRemoved bool      `db:"package_removed"`
	TravelDate     string    `db:"travel_date"`
	Persons        int       `db:"persons"`
	Status         string    `db:"status"`
	Amount         float64   `db:"amount"`
	BookedAt       time.Time `db:"booked_at"`
}

// UserSummary is a user row without credentials.
type UserSummary struct {
	ID        uint      `db:"id"`
	Fullname  string    `db:"fullname"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Location  string    `db:"location"`
	CreatedAt time.Time `db:"created_at"`
}

// TripStats splits a user's bookings around a reference date.
type TripStats struct {
	Total     int64 `db:"total"`
	Upcoming  int64 `db:"upcoming"`
	Completed int64 `db:"completed"`
}

type Repository struct {
	q database.Querier
}

func NewRepository(q database.Querier) *Repository {
	return &Repository{q: q}
}

const userBookingsQuery = `
SELECT b.id, b.package_id,
	COALESCE(p.title, b.package_title, '') AS title,
	COALESCE(p.description, '') AS description,
	COALESCE(p.price, 0) AS price,
	COALESCE(p.image_url, '') AS image_url,
	CASE WHEN p.id IS NULL THEN 1 ELSE 0 END AS package_removed,
	b.name, b.email, b.travel_date, b.persons,
	COALESCE(b.status, 'Pending') AS status,
	COALESCE(pay.amount, 0) AS amount,
	b.booked_at
FROM bookings b
LEFT JOIN packages p ON p.id = b.package_id
LEFT JOIN payments pay ON pay.booking_id = b.id
WHERE b.user_id = ?
ORDER BY b.booked_at DESC, b.id DESC`

// UserBookings returns the user's bookings, newest first. Bookings whose
// package was deleted keep their snapshot title and set PackageRemoved.
func (r *Repository) UserBookings(ctx context.Context, userID uint) ([]UserBooking, error) {
	rows := []UserBooking{}
	if err := r.q.Select(ctx, &rows, userBookingsQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to load bookings for user %d: %w", userID, err)
	}
	return rows, nil
}

// RecentUserBookings is UserBookings capped at limit rows.
func (r *Repository) RecentUserBookings(ctx context.Context, userID uint, limit int) ([]UserBooking, error) {
	rows := []UserBooking{}
	query := userBookingsQuery + fmt.Sprintf("\nLIMIT %d", limit)
	if err := r.q.Select(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load recent bookings for user %d: %w", userID, err)
	}
	return rows, nil
}

// TripStats counts a user's bookings on or after today (upcoming) and
// before it (completed). Travel dates are stored as YYYY-MM-DD.
func (r *Repository) TripStats(ctx context.Context, userID uint, today string) (TripStats, error) {
	var stats TripStats
	err := r.q.Get(ctx, &stats, `
SELECT COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN travel_date >= ? THEN 1 ELSE 0 END), 0) AS upcoming,
	COALESCE(SUM(CASE WHEN travel_date < ? THEN 1 ELSE 0 END), 0) AS completed
FROM bookings
WHERE user_id = ?`, today, today, userID)
	if err != nil {
		return TripStats{}, fmt.Errorf("failed to count trips for user %d: %w", userID, err)
	}
	return stats, nil
}

// AllBookings returns every booking with user and package display fields,
// newest first.
func (r *Repository) AllBookings(ctx context.Context) ([]AdminBooking, error) {
	rows := []AdminBooking{}
	err := r.q.Select(ctx, &rows, `
SELECT b.id,
	COALESCE(u.fullname, b.name) AS user_name,
	COALESCE(u.email, b.email) AS user_email,
	COALESCE(p.title, b.package_title, '') AS package_title,
	CASE WHEN p.id IS NULL THEN 1 ELSE 0 END AS package_removed,
	b.travel_date, b.persons,
	COALESCE(b.status, 'Pending') AS status,
	COALESCE(pay.amount, 0) AS amount,
	b.booked_at
FROM bookings b
LEFT JOIN users u ON u.id = b.user_id
LEFT JOIN packages p ON p.id = b.package_id
LEFT JOIN payments pay ON pay.booking_id = b.id
ORDER BY b.booked_at DESC, b.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	return rows, nil
}

// Users lists every user without the password hash.
func (r *Repository) Users(ctx context.Context) ([]UserSummary, error) {
	rows := []UserSummary{}
	err := r.q.Select(ctx, &rows, `
SELECT id, fullname, email,
	COALESCE(phone, '') AS phone,
	COALESCE(location, '') AS location,
	created_at
FROM users
ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return rows, nil
}

// Revenue sums successful payments. Status is compared ignoring case and
// surrounding whitespace.
func (r *Repository) Revenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.q.Get(ctx, &total, `
SELECT COALESCE(SUM(amount), 0)
FROM payments
WHERE TRIM(LOWER(payment_status)) = 'success'`)
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

// Table names accepted by Count.
const (
	TableUsers    = "users"
	TableBookings = "bookings"
	TablePackages = "packages"
	TableFeedback = "feedback"
)

// Count returns the row count of one of the Table* tables.
func (r *Repository) Count(ctx context.Context, table string) (int64, error) {
	switch table {
	case TableUsers, TableBookings, TablePackages, TableFeedback:
	default:
		return 0, fmt.Errorf("count: unknown table %q", table)
	}
	var n int64
	if err := r.q.Get(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
