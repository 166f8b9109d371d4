package entities

import "time"

// AdminActivity is an append-only audit row for back-office actions.
type AdminActivity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AdminID   *uint     `gorm:"index" json:"admin_id,omitempty"`
	Role      string    `gorm:"size:20" json:"role"`
	Action    string    `gorm:"size:500" json:"action"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (AdminActivity) TableName() string {
	return "admin_activity"
}

// CloudActivity is an append-only audit row for customer and guest actions.
type CloudActivity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Role      string    `gorm:"size:20" json:"role"`
	Action    string    `gorm:"size:500" json:"action"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (CloudActivity) TableName() string {
	return "cloud_activity"
}

// All returns every persisted entity, in migration order.
func All() []any {
	return []any{
		&User{},
		&Admin{},
		&TourPackage{},
		&AdminActivity{},
		&Booking{},
		&Payment{},
		&Feedback{},
		&CloudActivity{},
	}
}
