package models

import (
	"time"

	"gorm.io/gorm"
)

type Document struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ShipmentID   uint           `gorm:"not null;index" json:"shipment_id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Type         string         `gorm:"size:32;not null" json:"type"`   // BILL_OF_LADING | INVOICE | ...
	Status       string         `gorm:"size:16;not null;default:PENDING" json:"status"` // PENDING | APPROVED | REJECTED
	FileURL      string         `gorm:"size:512" json:"file_url"`
	ReviewNotes  string         `gorm:"type:text" json:"review_notes"`
	UploadedByID uint           `gorm:"not null" json:"uploaded_by_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	UploadedBy *User `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
}

func (Document) TableName() string { return "documents" }
