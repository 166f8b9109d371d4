package entities

import "time"

const (
	BookingStatusConfirmed = "Confirmed"
	BookingStatusPending   = "Pending"

	PaymentStatusSuccess = "SUCCESS"
	PaymentMethodOnline  = "ONLINE"
)

// Booking is a user's reservation against a package.
// PackageID is not a foreign key: deleting a package leaves its bookings in place,
// and PackageTitle keeps the title as it was when the booking was made.
type Booking struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	PackageID    uint      `gorm:"index;not null" json:"package_id"`
	PackageTitle string    `gorm:"size:200" json:"package_title"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Email        string    `gorm:"size:255;not null" json:"email"`
	TravelDate   string    `gorm:"size:20;not null" json:"travel_date"`
	Persons      int       `gorm:"not null" json:"persons"`
	Status       string    `gorm:"size:40;default:Confirmed" json:"status"`
	BookedAt     time.Time `gorm:"autoCreateTime;index" json:"booked_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Payment is the synthetic settlement attached to exactly one booking.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BookingID     uint      `gorm:"uniqueIndex;not null" json:"booking_id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	Amount        float64   `gorm:"not null" json:"amount"`
	PaymentStatus string    `gorm:"size:20;default:SUCCESS" json:"payment_status"`
	PaymentMethod string    `gorm:"size:20;default:ONLINE" json:"payment_method"`
	PaidAt        time.Time `gorm:"autoCreateTime" json:"paid_at"`
}

func (Payment) TableName() string {
	return "payments"
}
