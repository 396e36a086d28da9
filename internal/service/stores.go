package service

import (
	"time"

	"freightdesk/internal/domain"
	"freightdesk/internal/models"
)

// Store interfaces implemented by the repository package. Services depend on
// these rather than on concrete repositories so tests can inject in-memory
// fakes.

type ShipmentStore interface {
	Create(s *models.Shipment) error
	GetByID(id uint) (*models.Shipment, error)
	UpdateStatus(id uint, status domain.ShipmentStatus) error
	ListOverdue(now time.Time) ([]models.Shipment, error)
}

type TimelineStore interface {
	Create(e *models.TimelineEvent) error
}

type NotificationStore interface {
	Create(n *models.Notification) error
	ExistsForShipmentSince(shipmentID uint, notifType string, since time.Time) (bool, error)
}

type UserStore interface {
	ListActiveByRoles(roles []string) ([]models.User, error)
}

// StatusNotifier is the seam between the durable status-transition phase and
// the best-effort notify phase.
type StatusNotifier interface {
	NotifyStatusChange(shipmentID uint, newStatus, previousStatus domain.ShipmentStatus, notes, updatedBy string) (FanOutResult, error)
}
