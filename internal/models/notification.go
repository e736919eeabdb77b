package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types
const (
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationError   = "error"
	NotificationSuccess = "success"
	NotificationExpiry  = "expiry"
	NotificationDevice  = "device"
)

// Notification is a persisted copy of an emitted event, kept so that
// clients that were offline can still see what happened.
type Notification struct {
	ID      string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Message string `gorm:"not null" json:"message"`
	Type    string `gorm:"default:'info';index" json:"type"`

	DeviceID *string `gorm:"type:uuid" json:"deviceId,omitempty"`
	UserID   *string `gorm:"type:uuid" json:"userId,omitempty"`

	IsRead     bool       `gorm:"default:false;index" json:"isRead"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`

	Metadata datatypes.JSONMap `json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Notification model
func (Notification) TableName() string {
	return "notifications"
}
