package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	Type       string         `gorm:"size:32;not null;index" json:"type"` // STATUS_CHANGE | DEADLINE_APPROACHING | DOCUMENT_ALERT
	Title      string         `gorm:"size:255" json:"title"`
	Message    string         `gorm:"type:text" json:"message"`
	ShipmentID *uint          `gorm:"index" json:"shipment_id"`
	DocumentID *uint          `json:"document_id"`
	Read       bool           `gorm:"default:false;index" json:"read"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
