package models

import "time"

// VendorStatus marks whether a vendor is currently used for repairs
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "Active"
	VendorStatusInactive VendorStatus = "Inactive"
)

// Vendor represents a repair/replacement vendor
type Vendor struct {
	ID      string       `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Vendor  string       `gorm:"not null" json:"vendor"`
	Contact string       `gorm:"not null" json:"contact"`
	Email   string       `gorm:"not null" json:"email"`
	Phone   string       `gorm:"not null" json:"phone"`
	Status  VendorStatus `gorm:"default:'Active'" json:"status"`
	LogoURL string       `gorm:"column:logo_url" json:"logoUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Vendor model
func (Vendor) TableName() string {
	return "vendors"
}
