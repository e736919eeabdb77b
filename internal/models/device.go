package models

import (
	"time"

	"gorm.io/datatypes"
)

// DeviceMovement tracks whether a device is in stock or handed out
type DeviceMovement string

const (
	DeviceMovementInward  DeviceMovement = "inward"
	DeviceMovementOutward DeviceMovement = "outward"
)

// DeviceAttachments groups documentation files stored for a device
type DeviceAttachments struct {
	Invoice       *Upload         `json:"invoice,omitempty"`
	PurchaseOrder *Upload         `json:"purchaseOrder,omitempty"`
	Warranty      *Upload         `json:"warranty,omitempty"`
	Photos        []Upload        `json:"photos"`
	Manuals       []AdditionalDoc `json:"manuals"`
}

// Device represents a tracked IT asset
// Convention: Go PascalCase -> DB snake_case (GORM auto) -> JSON camelCase
type Device struct {
	ID     string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	SKU    string         `gorm:"column:sku;unique;not null" json:"sku"`
	Type   string         `gorm:"not null" json:"type"`
	Serial string         `gorm:"unique;not null" json:"serial"`
	Status DeviceMovement `gorm:"default:'inward'" json:"status"`

	AssignedTo   string     `json:"assignedTo,omitempty"`
	ProjectName  string     `json:"projectName,omitempty"`
	AssignedDate *time.Time `json:"assignedDate,omitempty"`

	CategoryID string `gorm:"type:uuid;not null;index" json:"categoryId"`

	Vendor              string     `json:"vendor,omitempty"`
	PurchaseOrderNumber string     `json:"purchaseOrderNumber,omitempty"`
	InvoiceNumber       string     `json:"invoiceNumber,omitempty"`
	PurchaseDate        *time.Time `json:"purchaseDate,omitempty"`
	WarrantyEndDate     *time.Time `gorm:"index" json:"warrantyEndDate,omitempty"`
	AMCExpiryDate       *time.Time `gorm:"column:amc_expiry_date" json:"amcExpiryDate,omitempty"`

	Attachments datatypes.JSONType[DeviceAttachments] `json:"attachments"`

	IPAddress         string `gorm:"column:ip_address" json:"ipAddress,omitempty"`
	MACAddress        string `gorm:"column:mac_address" json:"macAddress,omitempty"`
	FirmwareOSVersion string `gorm:"column:firmware_os_version" json:"firmwareOSVersion,omitempty"`

	InstalledAtSite string `json:"installedAtSite,omitempty"`
	RackID          string `gorm:"column:rack_id" json:"rackId,omitempty"`
	RackUnit        *int   `json:"rackUnit,omitempty"`
	DataCenter      string `json:"dataCenter,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName specifies the table name for Device model
func (Device) TableName() string {
	return "devices"
}
