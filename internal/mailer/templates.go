package mailer

import (
	"fmt"
	"strings"

	"freightdesk/internal/domain"
)

// StatusUpdateMail is the payload for the staff status-change email.
type StatusUpdateMail struct {
	RecipientName  string
	Reference      string
	Origin         string
	Destination    string
	PreviousStatus domain.ShipmentStatus
	NewStatus      domain.ShipmentStatus
	Notes          string
	UpdatedBy      string
}

func (m StatusUpdateMail) Subject() string {
	return fmt.Sprintf("Shipment #%s Status Update: %s", m.Reference, m.NewStatus.Label())
}

func (m StatusUpdateMail) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", m.RecipientName)
	fmt.Fprintf(&b, "Shipment %s (%s -> %s) has a new status.\n\n", m.Reference, m.Origin, m.Destination)
	fmt.Fprintf(&b, "Previous status: %s\n", m.PreviousStatus.Label())
	fmt.Fprintf(&b, "New status:      %s\n", m.NewStatus.Label())
	if m.Notes != "" {
		fmt.Fprintf(&b, "Notes:           %s\n", m.Notes)
	}
	fmt.Fprintf(&b, "Updated by:      %s\n", m.UpdatedBy)
	b.WriteString("\nFreightDesk\n")
	return b.String()
}

// DelayAlertMail is the payload for the customer-facing delay email.
type DelayAlertMail struct {
	RecipientName string
	Reference     string
	Origin        string
	Destination   string
	Status        domain.ShipmentStatus
	DaysDelayed   int
}

func (m DelayAlertMail) Subject() string {
	return fmt.Sprintf("Shipment Delay Alert - %s", m.Reference)
}

func (m DelayAlertMail) Body() string {
	day := "days"
	if m.DaysDelayed == 1 {
		day = "day"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", m.RecipientName)
	fmt.Fprintf(&b, "Your shipment %s (%s -> %s) is running %d %s behind its expected arrival date.\n\n",
		m.Reference, m.Origin, m.Destination, m.DaysDelayed, day)
	fmt.Fprintf(&b, "Current status: %s\n\n", m.Status.Label())
	b.WriteString("We apologise for the delay and are working to get it moving. ")
	b.WriteString("You will receive another update as soon as the status changes.\n\nFreightDesk\n")
	return b.String()
}
