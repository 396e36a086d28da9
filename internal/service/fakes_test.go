package service

import (
	"errors"
	"sync"
	"time"

	"freightdesk/internal/domain"
	"freightdesk/internal/models"

	"gorm.io/gorm"
)

// In-memory stands-ins for the repository layer.

type fakeShipmentStore struct {
	mu        sync.Mutex
	shipments map[uint]*models.Shipment
	nextID    uint
	updateErr error
	listErr   error
}

func newFakeShipmentStore(shipments ...*models.Shipment) *fakeShipmentStore {
	s := &fakeShipmentStore{shipments: make(map[uint]*models.Shipment), nextID: 1}
	for _, sh := range shipments {
		if sh.ID == 0 {
			sh.ID = s.nextID
		}
		if sh.ID >= s.nextID {
			s.nextID = sh.ID + 1
		}
		s.shipments[sh.ID] = sh
	}
	return s
}

func (s *fakeShipmentStore) Create(sh *models.Shipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh.ID = s.nextID
	s.nextID++
	s.shipments[sh.ID] = sh
	return nil
}

func (s *fakeShipmentStore) GetByID(id uint) (*models.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shipments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sh, nil
}

func (s *fakeShipmentStore) UpdateStatus(id uint, status domain.ShipmentStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shipments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sh.Status = status
	sh.UpdatedAt = time.Now()
	return nil
}

func (s *fakeShipmentStore) ListOverdue(now time.Time) ([]models.Shipment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Shipment
	for _, sh := range s.shipments {
		if sh.ExpectedArrival == nil || !sh.ExpectedArrival.Before(now) {
			continue
		}
		terminal := false
		for _, t := range domain.DelayTerminalStatuses {
			if sh.Status == t {
				terminal = true
				break
			}
		}
		if !terminal {
			out = append(out, *sh)
		}
	}
	return out, nil
}

type fakeTimelineStore struct {
	mu     sync.Mutex
	events []models.TimelineEvent
	err    error
}

func (s *fakeTimelineStore) Create(e *models.TimelineEvent) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uint(len(s.events) + 1)
	e.CreatedAt = time.Now()
	s.events = append(s.events, *e)
	return nil
}

type fakeNotificationStore struct {
	mu        sync.Mutex
	rows      []models.Notification
	createErr error
	existsErr map[uint]error
	now       func() time.Time
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{now: time.Now}
}

func (s *fakeNotificationStore) Create(n *models.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = uint(len(s.rows) + 1)
	n.CreatedAt = s.now()
	s.rows = append(s.rows, *n)
	return nil
}

func (s *fakeNotificationStore) ExistsForShipmentSince(shipmentID uint, notifType string, since time.Time) (bool, error) {
	if err := s.existsErr[shipmentID]; err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.rows {
		if n.ShipmentID != nil && *n.ShipmentID == shipmentID && n.Type == notifType && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeNotificationStore) rowsOfType(notifType string) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.rows {
		if n.Type == notifType {
			out = append(out, n)
		}
	}
	return out
}

type fakeUserStore struct {
	staff []models.User
	err   error
}

func (s *fakeUserStore) ListActiveByRoles(roles []string) ([]models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.User
	for _, u := range s.staff {
		if !u.Active {
			continue
		}
		for _, r := range roles {
			if u.Role == r {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

type sentMail struct {
	To      string
	Name    string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	failTo  map[string]bool
	failAll bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failTo: make(map[string]bool)}
}

var errSendFailed = errors.New("send failed")

func (m *fakeMailer) Send(to, toName, subject, body string) error {
	if m.failAll || m.failTo[to] {
		return errSendFailed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Name: toName, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, s := range m.sent {
		out[i] = s.To
	}
	return out
}

type fakeNotifier struct {
	calls    int
	lastNew  domain.ShipmentStatus
	lastPrev domain.ShipmentStatus
	res      FanOutResult
	err      error
}

func (f *fakeNotifier) NotifyStatusChange(shipmentID uint, newStatus, previousStatus domain.ShipmentStatus, notes, updatedBy string) (FanOutResult, error) {
	f.calls++
	f.lastNew = newStatus
	f.lastPrev = previousStatus
	return f.res, f.err
}
