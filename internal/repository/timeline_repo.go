package repository

import (
	"freightdesk/internal/models"

	"gorm.io/gorm"
)

type TimelineRepository struct {
	db *gorm.DB
}

func NewTimelineRepository(db *gorm.DB) *TimelineRepository {
	return &TimelineRepository{db: db}
}

// Create appends a timeline event. Events are never updated or deleted.
func (r *TimelineRepository) Create(e *models.TimelineEvent) error {
	return r.db.Create(e).Error
}

func (r *TimelineRepository) ListByShipmentID(shipmentID uint) ([]models.TimelineEvent, error) {
	var list []models.TimelineEvent
	err := r.db.Preload("CreatedBy").
		Where("shipment_id = ?", shipmentID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
