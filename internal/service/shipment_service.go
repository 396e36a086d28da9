package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freightdesk/internal/domain"
	"freightdesk/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidStatus = errors.New("invalid shipment status")
)

// Actor is the authenticated user on whose behalf a workflow runs. A nil
// actor fails the operation up front; authorization is an explicit
// precondition, not ambient state.
type Actor struct {
	ID   uint
	Name string
}

// StatusTransitionResult is returned by UpdateStatus.
type StatusTransitionResult struct {
	Shipment          *models.Shipment      `json:"shipment"`
	PreviousStatus    domain.ShipmentStatus `json:"previous_status"`
	NotificationsSent bool                  `json:"notifications_sent"`
}

type ShipmentService struct {
	shipments ShipmentStore
	timeline  TimelineStore
	notifier  StatusNotifier
	log       *zap.Logger
}

func NewShipmentService(shipments ShipmentStore, timeline TimelineStore, notifier StatusNotifier, log *zap.Logger) *ShipmentService {
	return &ShipmentService{shipments: shipments, timeline: timeline, notifier: notifier, log: log}
}

// CreateInput holds the fields for a new shipment.
type CreateInput struct {
	ClientName      string
	Origin          string
	Destination     string
	ExpectedArrival *time.Time
	CustomerID      *uint
}

// Create registers a new shipment with a generated reference, CREATED status
// and an initial timeline entry.
func (s *ShipmentService) Create(actor *Actor, in CreateInput) (*models.Shipment, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	sh := &models.Shipment{
		Reference:       NewReference(time.Now()),
		ClientName:      in.ClientName,
		Origin:          in.Origin,
		Destination:     in.Destination,
		Status:          domain.StatusCreated,
		ExpectedArrival: in.ExpectedArrival,
		CustomerID:      in.CustomerID,
		CreatedByID:     actor.ID,
	}
	if err := s.shipments.Create(sh); err != nil {
		return nil, err
	}
	event := &models.TimelineEvent{
		ShipmentID:  sh.ID,
		Status:      domain.StatusCreated,
		Notes:       "Shipment registered",
		CreatedByID: actor.ID,
	}
	if err := s.timeline.Create(event); err != nil {
		return nil, err
	}
	return sh, nil
}

// UpdateStatus applies a status change to one shipment: durable status +
// timeline writes first, then the best-effort staff fan-out. A fan-out
// failure is logged and swallowed; it never rolls back or fails the
// transition. No transition graph is enforced; any enumerated status is a
// legal next status.
func (s *ShipmentService) UpdateStatus(actor *Actor, shipmentID uint, newStatus domain.ShipmentStatus, notes, location string) (*StatusTransitionResult, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	sh, err := s.shipments.GetByID(shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	previous := sh.Status

	if err := s.shipments.UpdateStatus(sh.ID, newStatus); err != nil {
		return nil, err
	}
	sh.Status = newStatus
	sh.UpdatedAt = time.Now()

	if notes == "" {
		notes = "Status updated to " + newStatus.Label()
	}
	event := &models.TimelineEvent{
		ShipmentID:  sh.ID,
		Status:      newStatus,
		Notes:       notes,
		Location:    location,
		CreatedByID: actor.ID,
	}
	if err := s.timeline.Create(event); err != nil {
		return nil, err
	}

	notified := false
	if previous != newStatus {
		notified = true
		if res, err := s.notifier.NotifyStatusChange(sh.ID, newStatus, previous, notes, actor.Name); err != nil {
			s.log.Warn("staff fan-out failed; status change already committed",
				zap.Uint("shipment_id", sh.ID),
				zap.String("reference", sh.Reference),
				zap.Error(err))
		} else if res.Failed > 0 {
			s.log.Warn("staff fan-out partially failed",
				zap.Uint("shipment_id", sh.ID),
				zap.Int("failed", res.Failed),
				zap.Int("successful", res.Successful))
		}
	}

	return &StatusTransitionResult{
		Shipment:          sh,
		PreviousStatus:    previous,
		NotificationsSent: notified,
	}, nil
}

// NewReference builds a shipment reference like FD-2026-7C9A1B2D.
func NewReference(t time.Time) string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("FD-%d-%s", t.Year(), frag)
}
