package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"freightdesk/internal/domain"
	"freightdesk/internal/mailer"
	"freightdesk/internal/models"

	"go.uber.org/zap"
)

// DelayScanSummary is the result of one overdue sweep.
type DelayScanSummary struct {
	TotalDelayed        int `json:"total_delayed"`
	Skipped             int `json:"skipped"`
	NotificationsSent   int `json:"notifications_sent"`
	NotificationsFailed int `json:"notifications_failed"`
}

// DelayScanService sweeps all non-terminal shipments past their expected
// arrival and alerts each one's customer at most once per calendar day. The
// dedup check and the notification write are not atomic as a pair; two
// overlapping sweeps can both pass the check for the same shipment. The scan
// is cron-driven from a single scheduler, so that window only opens when a
// manual trigger races the scheduled run.
type DelayScanService struct {
	shipments     ShipmentStore
	notifications NotificationStore
	mail          mailer.Mailer
	log           *zap.Logger
	now           func() time.Time
}

func NewDelayScanService(shipments ShipmentStore, notifications NotificationStore, mail mailer.Mailer, log *zap.Logger) *DelayScanService {
	return &DelayScanService{
		shipments:     shipments,
		notifications: notifications,
		mail:          mail,
		log:           log,
		now:           time.Now,
	}
}

// WithClock overrides the scan's clock.
func (s *DelayScanService) WithClock(now func() time.Time) *DelayScanService {
	s.now = now
	return s
}

type pendingAlert struct {
	to   string
	name string
	msg  mailer.DelayAlertMail
}

// Run executes one sweep. Only a failure of the candidate query fails the
// scan; every per-shipment error (dedup read, row write, email send) is
// counted and the sweep moves on.
func (s *DelayScanService) Run() (DelayScanSummary, error) {
	now := s.now()
	candidates, err := s.shipments.ListOverdue(now)
	if err != nil {
		return DelayScanSummary{}, err
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	summary := DelayScanSummary{TotalDelayed: len(candidates)}
	var alerts []pendingAlert

	for _, sh := range candidates {
		exists, err := s.notifications.ExistsForShipmentSince(sh.ID, domain.NotificationDeadlineApproaching, midnight)
		if err != nil {
			summary.NotificationsFailed++
			s.log.Warn("dedup check failed", zap.String("reference", sh.Reference), zap.Error(err))
			continue
		}
		if exists {
			summary.Skipped++
			continue
		}

		daysDelayed := daysOverdue(*sh.ExpectedArrival, now)
		email, name := resolveRecipient(&sh)

		// Row first, email second: a crash between the two leaves a row
		// without an email, never a duplicate email on the next run.
		n := &models.Notification{
			UserID:     sh.CreatedByID,
			Type:       domain.NotificationDeadlineApproaching,
			Title:      "Shipment Delayed: " + sh.Reference,
			Message:    delayMessage(&sh, daysDelayed),
			ShipmentID: &sh.ID,
		}
		if err := s.notifications.Create(n); err != nil {
			summary.NotificationsFailed++
			s.log.Warn("delay notification write failed", zap.String("reference", sh.Reference), zap.Error(err))
			continue
		}

		alerts = append(alerts, pendingAlert{
			to:   email,
			name: name,
			msg: mailer.DelayAlertMail{
				RecipientName: name,
				Reference:     sh.Reference,
				Origin:        sh.Origin,
				Destination:   sh.Destination,
				Status:        sh.Status,
				DaysDelayed:   daysDelayed,
			},
		})
	}

	// Settle-all: every alert is attempted; outcomes are independent.
	outcomes := make([]error, len(alerts))
	var wg sync.WaitGroup
	for i, a := range alerts {
		wg.Add(1)
		go func(i int, a pendingAlert) {
			defer wg.Done()
			if s.mail == nil {
				outcomes[i] = errMailDisabled
				return
			}
			outcomes[i] = s.mail.Send(a.to, a.name, a.msg.Subject(), a.msg.Body())
		}(i, a)
	}
	wg.Wait()

	for i, err := range outcomes {
		if err != nil {
			summary.NotificationsFailed++
			s.log.Warn("delay email failed", zap.String("to", alerts[i].to), zap.Error(err))
		} else {
			summary.NotificationsSent++
		}
	}

	s.log.Info("delay scan complete",
		zap.Int("total_delayed", summary.TotalDelayed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("sent", summary.NotificationsSent),
		zap.Int("failed", summary.NotificationsFailed))
	return summary, nil
}

var errMailDisabled = &mailDisabledError{}

type mailDisabledError struct{}

func (*mailDisabledError) Error() string { return "mail transport not configured" }

// daysOverdue returns ceil((now - expected) / 24h), minimum 1.
func daysOverdue(expected, now time.Time) int {
	d := now.Sub(expected)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// resolveRecipient prefers the linked customer's contact details and falls
// back to a deterministic synthetic address built from the free-text client
// name.
func resolveRecipient(sh *models.Shipment) (email, name string) {
	if sh.Customer != nil && sh.Customer.Email != "" {
		return sh.Customer.Email, sh.Customer.Name
	}
	name = sh.ClientName
	if name == "" {
		name = "Customer"
	}
	local := strings.ToLower(strings.Join(strings.Fields(name), "."))
	return local + "@clients.freightdesk.local", name
}

func delayMessage(sh *models.Shipment, daysDelayed int) string {
	day := "days"
	if daysDelayed == 1 {
		day = "day"
	}
	return fmt.Sprintf("Shipment %s (%s -> %s) is %d %s past its expected arrival.",
		sh.Reference, sh.Origin, sh.Destination, daysDelayed, day)
}
