package repository

import (
	"time"

	"freightdesk/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListByUserID(userID uint, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *NotificationRepository) CountUnread(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Notification{}).Where("user_id = ? AND `read` = ?", userID, false).Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkRead(id, userID uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ? AND user_id = ?", id, userID).Update("read", true).Error
}

func (r *NotificationRepository) MarkAllRead(userID uint) error {
	return r.db.Model(&models.Notification{}).Where("user_id = ? AND `read` = ?", userID, false).Update("read", true).Error
}

// ExistsForShipmentSince reports whether a notification of the given type
// already exists for the shipment with created_at on or after since. Used by
// the delay scan's same-day dedup check.
func (r *NotificationRepository) ExistsForShipmentSince(shipmentID uint, notifType string, since time.Time) (bool, error) {
	var n int64
	err := r.db.Model(&models.Notification{}).
		Where("shipment_id = ? AND type = ? AND created_at >= ?", shipmentID, notifType, since).
		Count(&n).Error
	return n > 0, err
}
