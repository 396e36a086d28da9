package models

import (
	"time"

	"freightdesk/internal/domain"

	"gorm.io/gorm"
)

type Shipment struct {
	ID              uint                  `gorm:"primaryKey" json:"id"`
	Reference       string                `gorm:"uniqueIndex;size:32;not null" json:"reference"`
	ClientName      string                `gorm:"size:128" json:"client_name"` // free text; used when no Customer is linked
	Origin          string                `gorm:"size:128;not null" json:"origin"`
	Destination     string                `gorm:"size:128;not null" json:"destination"`
	Status          domain.ShipmentStatus `gorm:"size:32;not null;index" json:"status"`
	ExpectedArrival *time.Time            `gorm:"index" json:"expected_arrival"`
	CustomerID      *uint                 `gorm:"index" json:"customer_id"`
	CreatedByID     uint                  `gorm:"not null;index" json:"created_by_id"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	DeletedAt       gorm.DeletedAt        `gorm:"index" json:"-"`

	Customer       *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CreatedBy      *User           `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	TimelineEvents []TimelineEvent `gorm:"foreignKey:ShipmentID" json:"timeline_events,omitempty"`
	Documents      []Document      `gorm:"foreignKey:ShipmentID" json:"documents,omitempty"`
}

func (Shipment) TableName() string { return "shipments" }

// Overdue reports whether the shipment is past its expected arrival at t.
// Shipments without an expected arrival are never overdue.
func (s *Shipment) Overdue(t time.Time) bool {
	return s.ExpectedArrival != nil && s.ExpectedArrival.Before(t)
}
