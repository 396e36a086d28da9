package service

import (
	"errors"
	"testing"
	"time"

	"freightdesk/internal/domain"
	"freightdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var scanNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func overdueShipment(id uint, ref string, overdueBy time.Duration) *models.Shipment {
	expected := scanNow.Add(-overdueBy)
	return &models.Shipment{
		ID:              id,
		Reference:       ref,
		ClientName:      "Acme Ltd",
		Origin:          "Shanghai",
		Destination:     "Mombasa",
		Status:          domain.StatusInTransit,
		ExpectedArrival: &expected,
		CreatedByID:     7,
	}
}

func newScanService(shipments *fakeShipmentStore, notifications *fakeNotificationStore, mail *fakeMailer) *DelayScanService {
	clock := func() time.Time { return scanNow }
	notifications.now = clock
	return NewDelayScanService(shipments, notifications, mail, zap.NewNop()).WithClock(clock)
}

// Scenario: one overdue shipment, no prior alert today. One row, one email.
func TestDelayScanFirstRun(t *testing.T) {
	shipments := newFakeShipmentStore(overdueShipment(1, "REF-001", 20*time.Hour))
	notifications := newFakeNotificationStore()
	mail := newFakeMailer()
	svc := newScanService(shipments, notifications, mail)

	summary, err := svc.Run()
	require.NoError(t, err)

	assert.Equal(t, DelayScanSummary{TotalDelayed: 1, NotificationsSent: 1}, summary)

	rows := notifications.rowsOfType(domain.NotificationDeadlineApproaching)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(7), rows[0].UserID)
	require.NotNil(t, rows[0].ShipmentID)
	assert.Equal(t, uint(1), *rows[0].ShipmentID)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "Shipment Delay Alert - REF-001", mail.sent[0].Subject)
	assert.Contains(t, mail.sent[0].Body, "1 day behind")
}

// Scenario: second run on the same day skips the already-notified shipment.
func TestDelayScanSameDayDedup(t *testing.T) {
	shipments := newFakeShipmentStore(overdueShipment(1, "REF-001", 20*time.Hour))
	notifications := newFakeNotificationStore()
	mail := newFakeMailer()
	svc := newScanService(shipments, notifications, mail)

	_, err := svc.Run()
	require.NoError(t, err)

	summary, err := svc.Run()
	require.NoError(t, err)

	// Still overdue, still counted, but no second alert.
	assert.Equal(t, DelayScanSummary{TotalDelayed: 1, Skipped: 1}, summary)
	assert.Len(t, notifications.rowsOfType(domain.NotificationDeadlineApproaching), 1)
	assert.Len(t, mail.sent, 1)
}

// A shipment notified yesterday and still overdue gets a fresh alert today.
func TestDelayScanDedupResetsAcrossDays(t *testing.T) {
	shipments := newFakeShipmentStore(overdueShipment(1, "REF-001", 30*time.Hour))
	notifications := newFakeNotificationStore()
	mail := newFakeMailer()

	yesterday := scanNow.Add(-24 * time.Hour)
	notifications.now = func() time.Time { return yesterday }
	svcDay1 := NewDelayScanService(shipments, notifications, mail, zap.NewNop()).
		WithClock(func() time.Time { return yesterday })
	_, err := svcDay1.Run()
	require.NoError(t, err)

	notifications.now = func() time.Time { return scanNow }
	svcDay2 := NewDelayScanService(shipments, notifications, mail, zap.NewNop()).
		WithClock(func() time.Time { return scanNow })
	summary, err := svcDay2.Run()
	require.NoError(t, err)

	assert.Equal(t, DelayScanSummary{TotalDelayed: 1, NotificationsSent: 1}, summary)
	assert.Len(t, notifications.rowsOfType(domain.NotificationDeadlineApproaching), 2)
	assert.Len(t, mail.sent, 2)
}

// Terminal shipments never become candidates, however overdue.
func TestDelayScanExcludesTerminalStatuses(t *testing.T) {
	delivered := overdueShipment(1, "REF-001", 72*time.Hour)
	delivered.Status = domain.StatusDelivered
	completed := overdueShipment(2, "REF-002", 72*time.Hour)
	completed.Status = domain.StatusCompleted
	returned := overdueShipment(3, "REF-003", 72*time.Hour)
	returned.Status = domain.StatusReturned

	shipments := newFakeShipmentStore(delivered, completed, returned)
	notifications := newFakeNotificationStore()
	mail := newFakeMailer()
	svc := newScanService(shipments, notifications, mail)

	summary, err := svc.Run()
	require.NoError(t, err)

	// RETURNED is not in the terminal set for delay scanning.
	assert.Equal(t, 1, summary.TotalDelayed)
	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].Subject, "REF-003")
}

func TestDelayScanPartialEmailFailure(t *testing.T) {
	shA := overdueShipment(1, "REF-001", 20*time.Hour)
	shB := overdueShipment(2, "REF-002", 20*time.Hour)
	shB.ClientName = "Globex"
	shipments := newFakeShipmentStore(shA, shB)
	notifications := newFakeNotificationStore()
	mail := newFakeMailer()
	mail.failTo["globex@clients.freightdesk.local"] = true
	svc := newScanService(shipments, notifications, mail)

	summary, err := svc.Run()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalDelayed)
	assert.Equal(t, 1, summary.NotificationsSent)
	assert.Equal(t, 1, summary.NotificationsFailed)
	// Both rows were written before any email attempt.
	assert.Len(t, notifications.rowsOfType(domain.NotificationDeadlineApproaching), 2)
}

// A dedup read failing for one shipment skips only that shipment.
func TestDelayScanDedupErrorIsolation(t *testing.T) {
	shipments := newFakeShipmentStore(
		overdueShipment(1, "REF-001", 20*time.Hour),
		overdueShipment(2, "REF-002", 20*time.Hour),
	)
	notifications := newFakeNotificationStore()
	notifications.existsErr = map[uint]error{1: errors.New("timeout")}
	mail := newFakeMailer()
	svc := newScanService(shipments, notifications, mail)

	summary, err := svc.Run()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalDelayed)
	assert.Equal(t, 1, summary.NotificationsSent)
	assert.Equal(t, 1, summary.NotificationsFailed)
	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].Subject, "REF-002")
}

func TestDelayScanCandidateQueryFailure(t *testing.T) {
	shipments := newFakeShipmentStore()
	shipments.listErr = errors.New("connection refused")
	svc := newScanService(shipments, newFakeNotificationStore(), newFakeMailer())

	_, err := svc.Run()
	assert.Error(t, err)
}

// Customer contact details win over the synthetic client-name address.
func TestDelayScanPrefersCustomerEmail(t *testing.T) {
	sh := overdueShipment(1, "REF-001", 20*time.Hour)
	sh.Customer = &models.Customer{ID: 5, Name: "Acme Limited", Email: "ops@acme.example"}
	shipments := newFakeShipmentStore(sh)
	notifications := newFakeNotificationStore()
	mail := newFakeMailer()
	svc := newScanService(shipments, notifications, mail)

	_, err := svc.Run()
	require.NoError(t, err)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "ops@acme.example", mail.sent[0].To)
	assert.Equal(t, "Acme Limited", mail.sent[0].Name)
}

func TestResolveRecipientSynthetic(t *testing.T) {
	sh := &models.Shipment{ClientName: "Acme Trading Co"}
	email, name := resolveRecipient(sh)
	assert.Equal(t, "acme.trading.co@clients.freightdesk.local", email)
	assert.Equal(t, "Acme Trading Co", name)

	email, name = resolveRecipient(&models.Shipment{})
	assert.Equal(t, "customer@clients.freightdesk.local", email)
	assert.Equal(t, "Customer", name)
}

func TestDaysOverdue(t *testing.T) {
	base := scanNow
	cases := []struct {
		name string
		d    time.Duration
		want int
	}{
		{"one hour", time.Hour, 1},
		{"just under a day", 23 * time.Hour, 1},
		{"exactly a day", 24 * time.Hour, 1},
		{"a day and an hour", 25 * time.Hour, 2},
		{"three days", 72 * time.Hour, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, daysOverdue(base.Add(-tc.d), base))
		})
	}
}
