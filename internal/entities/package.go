package entities

import "time"

const (
	PackageStatusAvailable = "Available"
	DefaultPackageImage    = "https://picsum.photos/seed/default/800/500"
)

// TourPackage is a purchasable travel offering.
type TourPackage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Location    string    `gorm:"size:120;not null" json:"location"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Days        int       `gorm:"not null" json:"days"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	Status      string    `gorm:"size:40;default:Available" json:"status"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (TourPackage) TableName() string {
	return "packages"
}
