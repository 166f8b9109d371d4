package entities

import "time"

const (
	DefaultAdminRole   = "Administrator"
	DefaultAdminAvatar = "/static/admin_default.png"
)

// User is a customer account. Users are never hard-deleted.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Fullname     string    `gorm:"size:120;not null" json:"fullname"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Phone        string    `gorm:"size:40" json:"phone,omitempty"`
	Location     string    `gorm:"size:120" json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Admin is a back-office account, stored apart from customers.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Fullname     string    `gorm:"size:120;not null" json:"fullname"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Phone        string    `gorm:"size:40" json:"phone,omitempty"`
	Role         string    `gorm:"size:60;default:Administrator" json:"role"`
	Avatar       string    `gorm:"size:255;default:/static/admin_default.png" json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Admin) TableName() string {
	return "admins"
}

// DisplayRole returns the role label, falling back to the default one.
func (a *Admin) DisplayRole() string {
	if a.Role == "" {
		return DefaultAdminRole
	}
	return a.Role
}

// DisplayAvatar returns the avatar reference, falling back to the bundled placeholder.
func (a *Admin) DisplayAvatar() string {
	if a.Avatar == "" {
		return DefaultAdminAvatar
	}
	return a.Avatar
}
