package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"freightdesk/internal/domain"
	"freightdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestShipment(status domain.ShipmentStatus) *models.Shipment {
	return &models.Shipment{
		ID:          1,
		Reference:   "FD-2026-TEST0001",
		ClientName:  "Acme Ltd",
		Origin:      "Shanghai",
		Destination: "Mombasa",
		Status:      status,
		CreatedByID: 7,
	}
}

func TestUpdateStatusHappyPath(t *testing.T) {
	store := newFakeShipmentStore(newTestShipment(domain.StatusCreated))
	timeline := &fakeTimelineStore{}
	notifier := &fakeNotifier{res: FanOutResult{Total: 2, Successful: 2}}
	svc := NewShipmentService(store, timeline, notifier, zap.NewNop())

	res, err := svc.UpdateStatus(&Actor{ID: 7, Name: "Jane"}, 1, domain.StatusInTransit, "departed port", "Shanghai")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCreated, res.PreviousStatus)
	assert.Equal(t, domain.StatusInTransit, res.Shipment.Status)
	assert.True(t, res.NotificationsSent)

	stored, err := store.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, stored.Status)

	require.Len(t, timeline.events, 1)
	assert.Equal(t, domain.StatusInTransit, timeline.events[0].Status)
	assert.Equal(t, "departed port", timeline.events[0].Notes)
	assert.Equal(t, "Shanghai", timeline.events[0].Location)
	assert.Equal(t, uint(7), timeline.events[0].CreatedByID)

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, domain.StatusCreated, notifier.lastPrev)
}

// A notification-path failure must not fail the transition or roll the
// status back.
func TestUpdateStatusSurvivesNotifierFailure(t *testing.T) {
	store := newFakeShipmentStore(newTestShipment(domain.StatusInTransit))
	timeline := &fakeTimelineStore{}
	notifier := &fakeNotifier{err: errors.New("smtp relay down")}
	svc := NewShipmentService(store, timeline, notifier, zap.NewNop())

	res, err := svc.UpdateStatus(&Actor{ID: 7, Name: "Jane"}, 1, domain.StatusCargoArrived, "", "")
	require.NoError(t, err)
	assert.True(t, res.NotificationsSent)

	stored, _ := store.GetByID(1)
	assert.Equal(t, domain.StatusCargoArrived, stored.Status)
	assert.Len(t, timeline.events, 1)
}

// Same status in and out: timeline is still appended but the fan-out is
// never invoked.
func TestUpdateStatusNoOpTransitionSkipsFanOut(t *testing.T) {
	store := newFakeShipmentStore(newTestShipment(domain.StatusInTransit))
	timeline := &fakeTimelineStore{}
	notifier := &fakeNotifier{}
	svc := NewShipmentService(store, timeline, notifier, zap.NewNop())

	res, err := svc.UpdateStatus(&Actor{ID: 7, Name: "Jane"}, 1, domain.StatusInTransit, "still moving", "")
	require.NoError(t, err)

	assert.False(t, res.NotificationsSent)
	assert.Equal(t, 0, notifier.calls)
	assert.Len(t, timeline.events, 1)
}

func TestUpdateStatusAutoNote(t *testing.T) {
	store := newFakeShipmentStore(newTestShipment(domain.StatusCreated))
	timeline := &fakeTimelineStore{}
	svc := NewShipmentService(store, timeline, &fakeNotifier{}, zap.NewNop())

	_, err := svc.UpdateStatus(&Actor{ID: 7, Name: "Jane"}, 1, domain.StatusTransferredToCFS, "", "")
	require.NoError(t, err)

	require.Len(t, timeline.events, 1)
	assert.Equal(t, "Status updated to Transferred To CFS", timeline.events[0].Notes)
}

func TestUpdateStatusNilActor(t *testing.T) {
	svc := NewShipmentService(newFakeShipmentStore(), &fakeTimelineStore{}, &fakeNotifier{}, zap.NewNop())
	_, err := svc.UpdateStatus(nil, 1, domain.StatusInTransit, "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateStatusUnknownShipment(t *testing.T) {
	svc := NewShipmentService(newFakeShipmentStore(), &fakeTimelineStore{}, &fakeNotifier{}, zap.NewNop())
	_, err := svc.UpdateStatus(&Actor{ID: 7}, 99, domain.StatusInTransit, "", "")
	assert.ErrorIs(t, err, ErrShipmentNotFound)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	store := newFakeShipmentStore(newTestShipment(domain.StatusCreated))
	svc := NewShipmentService(store, &fakeTimelineStore{}, &fakeNotifier{}, zap.NewNop())
	_, err := svc.UpdateStatus(&Actor{ID: 7}, 1, "TELEPORTED", "", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

// A persistence failure in the durable core fails the whole operation.
func TestUpdateStatusPersistenceFailure(t *testing.T) {
	store := newFakeShipmentStore(newTestShipment(domain.StatusCreated))
	store.updateErr = errors.New("connection reset")
	notifier := &fakeNotifier{}
	svc := NewShipmentService(store, &fakeTimelineStore{}, notifier, zap.NewNop())

	_, err := svc.UpdateStatus(&Actor{ID: 7}, 1, domain.StatusInTransit, "", "")
	assert.Error(t, err)
	assert.Equal(t, 0, notifier.calls)
}

func TestUpdateStatusTimelineFailure(t *testing.T) {
	store := newFakeShipmentStore(newTestShipment(domain.StatusCreated))
	timeline := &fakeTimelineStore{err: errors.New("disk full")}
	notifier := &fakeNotifier{}
	svc := NewShipmentService(store, timeline, notifier, zap.NewNop())

	_, err := svc.UpdateStatus(&Actor{ID: 7}, 1, domain.StatusInTransit, "", "")
	assert.Error(t, err)
	// Status write happened before the failing timeline write and stays
	// committed; there is no rollback.
	stored, _ := store.GetByID(1)
	assert.Equal(t, domain.StatusInTransit, stored.Status)
	assert.Equal(t, 0, notifier.calls)
}

func TestCreateShipment(t *testing.T) {
	store := newFakeShipmentStore()
	timeline := &fakeTimelineStore{}
	svc := NewShipmentService(store, timeline, &fakeNotifier{}, zap.NewNop())

	arrival := time.Now().Add(14 * 24 * time.Hour)
	sh, err := svc.Create(&Actor{ID: 3, Name: "Ops"}, CreateInput{
		ClientName:      "Acme Ltd",
		Origin:          "Ningbo",
		Destination:     "Dar es Salaam",
		ExpectedArrival: &arrival,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCreated, sh.Status)
	assert.Equal(t, uint(3), sh.CreatedByID)
	assert.True(t, strings.HasPrefix(sh.Reference, "FD-"))
	require.Len(t, timeline.events, 1)
	assert.Equal(t, domain.StatusCreated, timeline.events[0].Status)
}

func TestCreateShipmentNilActor(t *testing.T) {
	svc := NewShipmentService(newFakeShipmentStore(), &fakeTimelineStore{}, &fakeNotifier{}, zap.NewNop())
	_, err := svc.Create(nil, CreateInput{Origin: "A", Destination: "B"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewReferenceShape(t *testing.T) {
	ref := NewReference(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, `^FD-2026-[0-9A-F]{8}$`, ref)
	assert.NotEqual(t, ref, NewReference(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}
