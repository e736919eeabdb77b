package models

import "time"

// Category groups devices by kind (router, laptop, server, ...)
type Category struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string `gorm:"unique;not null" json:"name"`
	Description string `gorm:"default:'No description provided'" json:"description"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Category model
func (Category) TableName() string {
	return "categories"
}
