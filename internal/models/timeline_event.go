package models

import (
	"time"

	"freightdesk/internal/domain"
)

// TimelineEvent is the append-only status history of a shipment. Rows are
// never updated or deleted.
type TimelineEvent struct {
	ID          uint                  `gorm:"primaryKey" json:"id"`
	ShipmentID  uint                  `gorm:"not null;index" json:"shipment_id"`
	Status      domain.ShipmentStatus `gorm:"size:32;not null" json:"status"`
	Notes       string                `gorm:"type:text" json:"notes"`
	Location    string                `gorm:"size:128" json:"location"`
	CreatedByID uint                  `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time             `json:"created_at"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

func (TimelineEvent) TableName() string { return "timeline_events" }
