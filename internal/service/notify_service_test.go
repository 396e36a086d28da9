package service

import (
	"errors"
	"testing"

	"freightdesk/internal/domain"
	"freightdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func staffUsers() []models.User {
	return []models.User{
		{ID: 1, Name: "Alice", Email: "alice@freightdesk.local", Role: domain.RoleAdmin, Active: true},
		{ID: 2, Name: "Bob", Email: "bob@freightdesk.local", Role: domain.RoleStaff, Active: true},
		{ID: 3, Name: "Carol", Email: "carol@freightdesk.local", Role: domain.RoleAgent, Active: true},
	}
}

func TestFanOutAllEmailsSucceed(t *testing.T) {
	shipments := newFakeShipmentStore(newTestShipment(domain.StatusInTransit))
	users := &fakeUserStore{staff: staffUsers()}
	notifications := newFakeNotificationStore()
	mail := newFakeMailer()
	svc := NewNotifyService(shipments, users, notifications, mail, nil, zap.NewNop())

	res, err := svc.NotifyStatusChange(1, domain.StatusCargoArrived, domain.StatusInTransit, "berthed", "Jane")
	require.NoError(t, err)

	assert.Equal(t, FanOutResult{Total: 3, Successful: 3, Failed: 0}, res)
	assert.ElementsMatch(t,
		[]string{"alice@freightdesk.local", "bob@freightdesk.local", "carol@freightdesk.local"},
		mail.sentTo())
	assert.Len(t, notifications.rowsOfType(domain.NotificationStatusChange), 3)
	assert.Contains(t, mail.sent[0].Subject, "Shipment #FD-2026-TEST0001 Status Update: Cargo Arrived")
}

// Partial email failure: failed sends are counted, successes still go out,
// and every recipient still gets a Notification row.
func TestFanOutPartialEmailFailure(t *testing.T) {
	shipments := newFakeShipmentStore(newTestShipment(domain.StatusInTransit))
	users := &fakeUserStore{staff: staffUsers()}
	notifications := newFakeNotificationStore()
	mail := newFakeMailer()
	mail.failTo["bob@freightdesk.local"] = true
	svc := NewNotifyService(shipments, users, notifications, mail, nil, zap.NewNop())

	res, err := svc.NotifyStatusChange(1, domain.StatusCleared, domain.StatusInTransit, "", "Jane")
	require.NoError(t, err)

	assert.Equal(t, FanOutResult{Total: 3, Successful: 2, Failed: 1}, res)
	assert.Len(t, notifications.rowsOfType(domain.NotificationStatusChange), 3)
}

func TestFanOutAllEmailsFailRowsStillWritten(t *testing.T) {
	shipments := newFakeShipmentStore(newTestShipment(domain.StatusInTransit))
	users := &fakeUserStore{staff: staffUsers()}
	notifications := newFakeNotificationStore()
	mail := newFakeMailer()
	mail.failAll = true
	svc := NewNotifyService(shipments, users, notifications, mail, nil, zap.NewNop())

	res, err := svc.NotifyStatusChange(1, domain.StatusDelivered, domain.StatusInTransit, "", "Jane")
	require.NoError(t, err)

	assert.Equal(t, FanOutResult{Total: 3, Successful: 0, Failed: 3}, res)
	assert.Len(t, notifications.rowsOfType(domain.NotificationStatusChange), 3)
}

func TestFanOutZeroStaffIsNotAnError(t *testing.T) {
	shipments := newFakeShipmentStore(newTestShipment(domain.StatusInTransit))
	users := &fakeUserStore{}
	svc := NewNotifyService(shipments, users, newFakeNotificationStore(), newFakeMailer(), nil, zap.NewNop())

	res, err := svc.NotifyStatusChange(1, domain.StatusCleared, domain.StatusInTransit, "", "Jane")
	require.NoError(t, err)
	assert.Equal(t, FanOutResult{}, res)
}

func TestFanOutInactiveAndNonStaffExcluded(t *testing.T) {
	shipments := newFakeShipmentStore(newTestShipment(domain.StatusInTransit))
	users := &fakeUserStore{staff: []models.User{
		{ID: 1, Name: "Alice", Email: "alice@freightdesk.local", Role: domain.RoleAdmin, Active: true},
		{ID: 2, Name: "Gone", Email: "gone@freightdesk.local", Role: domain.RoleStaff, Active: false},
		{ID: 3, Name: "Portal", Email: "portal@freightdesk.local", Role: domain.RoleUser, Active: true},
	}}
	notifications := newFakeNotificationStore()
	mail := newFakeMailer()
	svc := NewNotifyService(shipments, users, notifications, mail, nil, zap.NewNop())

	res, err := svc.NotifyStatusChange(1, domain.StatusCleared, domain.StatusInTransit, "", "Jane")
	require.NoError(t, err)

	assert.Equal(t, FanOutResult{Total: 1, Successful: 1}, res)
	assert.Equal(t, []string{"alice@freightdesk.local"}, mail.sentTo())
}

func TestFanOutUnknownShipment(t *testing.T) {
	svc := NewNotifyService(newFakeShipmentStore(), &fakeUserStore{}, newFakeNotificationStore(), newFakeMailer(), nil, zap.NewNop())
	_, err := svc.NotifyStatusChange(42, domain.StatusCleared, domain.StatusInTransit, "", "Jane")
	assert.ErrorIs(t, err, ErrShipmentNotFound)
}

func TestFanOutStaffQueryFailure(t *testing.T) {
	shipments := newFakeShipmentStore(newTestShipment(domain.StatusInTransit))
	users := &fakeUserStore{err: errors.New("db gone")}
	svc := NewNotifyService(shipments, users, newFakeNotificationStore(), newFakeMailer(), nil, zap.NewNop())
	_, err := svc.NotifyStatusChange(1, domain.StatusCleared, domain.StatusInTransit, "", "Jane")
	assert.Error(t, err)
}

func TestFanOutNilMailerCountsAsFailed(t *testing.T) {
	shipments := newFakeShipmentStore(newTestShipment(domain.StatusInTransit))
	users := &fakeUserStore{staff: staffUsers()[:1]}
	notifications := newFakeNotificationStore()
	svc := NewNotifyService(shipments, users, notifications, nil, nil, zap.NewNop())

	res, err := svc.NotifyStatusChange(1, domain.StatusCleared, domain.StatusInTransit, "", "Jane")
	require.NoError(t, err)
	assert.Equal(t, FanOutResult{Total: 1, Failed: 1}, res)
	// Row creation does not depend on the mail transport.
	assert.Len(t, notifications.rowsOfType(domain.NotificationStatusChange), 1)
}
