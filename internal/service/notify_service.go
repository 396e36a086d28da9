package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"freightdesk/internal/domain"
	"freightdesk/internal/mailer"
	"freightdesk/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrShipmentNotFound = errors.New("shipment not found")

// FanOutResult summarises one notification fan-out: how many recipients were
// targeted and how many email sends succeeded or failed.
type FanOutResult struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// NotifyService fans a status change out to all active staff. Emails are sent
// concurrently with independent outcomes; a Notification row is written for
// every staff member regardless of how their email fared.
type NotifyService struct {
	shipments     ShipmentStore
	users         UserStore
	notifications NotificationStore
	mail          mailer.Mailer
	fcm           *FCMService
	log           *zap.Logger
}

func NewNotifyService(shipments ShipmentStore, users UserStore, notifications NotificationStore, mail mailer.Mailer, fcm *FCMService, log *zap.Logger) *NotifyService {
	return &NotifyService{
		shipments:     shipments,
		users:         users,
		notifications: notifications,
		mail:          mail,
		fcm:           fcm,
		log:           log,
	}
}

func (s *NotifyService) NotifyStatusChange(shipmentID uint, newStatus, previousStatus domain.ShipmentStatus, notes, updatedBy string) (FanOutResult, error) {
	sh, err := s.shipments.GetByID(shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FanOutResult{}, ErrShipmentNotFound
		}
		return FanOutResult{}, err
	}

	staff, err := s.users.ListActiveByRoles(domain.StaffRoles)
	if err != nil {
		return FanOutResult{}, err
	}
	if len(staff) == 0 {
		return FanOutResult{}, nil
	}

	// Settle-all email fan-out: every send runs to completion and reports
	// its own outcome.
	outcomes := make([]error, len(staff))
	var wg sync.WaitGroup
	for i, u := range staff {
		wg.Add(1)
		go func(i int, u models.User) {
			defer wg.Done()
			msg := mailer.StatusUpdateMail{
				RecipientName:  u.Name,
				Reference:      sh.Reference,
				Origin:         sh.Origin,
				Destination:    sh.Destination,
				PreviousStatus: previousStatus,
				NewStatus:      newStatus,
				Notes:          notes,
				UpdatedBy:      updatedBy,
			}
			outcomes[i] = s.send(u.Email, u.Name, msg.Subject(), msg.Body())
		}(i, u)
	}

	// Notification rows are written while the emails are in flight; the row
	// does not depend on the email outcome.
	title := fmt.Sprintf("Shipment %s: %s", sh.Reference, newStatus.Label())
	message := fmt.Sprintf("Status changed from %s to %s by %s", previousStatus.Label(), newStatus.Label(), updatedBy)
	if notes != "" {
		message += ". " + notes
	}
	for _, u := range staff {
		n := &models.Notification{
			UserID:     u.ID,
			Type:       domain.NotificationStatusChange,
			Title:      title,
			Message:    message,
			ShipmentID: &sh.ID,
		}
		if err := s.notifications.Create(n); err != nil {
			s.log.Warn("notification row write failed",
				zap.Uint("user_id", u.ID),
				zap.Uint("shipment_id", sh.ID),
				zap.Error(err))
		}
		if s.fcm != nil && u.FCMToken != "" {
			_ = s.fcm.Send(context.Background(), u.FCMToken, title, message, map[string]string{
				"shipment_id": fmt.Sprint(sh.ID),
				"reference":   sh.Reference,
			})
		}
	}
	wg.Wait()

	res := FanOutResult{Total: len(staff)}
	for i, err := range outcomes {
		if err != nil {
			res.Failed++
			s.log.Warn("staff email failed",
				zap.String("to", staff[i].Email),
				zap.String("reference", sh.Reference),
				zap.Error(err))
		} else {
			res.Successful++
		}
	}
	return res, nil
}

// NotifyDocumentAlert records a DOCUMENT_ALERT for the document uploader,
// e.g. when a reviewer rejects a document.
func (s *NotifyService) NotifyDocumentAlert(userID uint, shipmentID, documentID uint, title, message string) error {
	return s.notifications.Create(&models.Notification{
		UserID:     userID,
		Type:       domain.NotificationDocumentAlert,
		Title:      title,
		Message:    message,
		ShipmentID: &shipmentID,
		DocumentID: &documentID,
	})
}

func (s *NotifyService) send(to, toName, subject, body string) error {
	if s.mail == nil {
		return errors.New("mail transport not configured")
	}
	return s.mail.Send(to, toName, subject, body)
}
