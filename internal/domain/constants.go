package domain

// User roles. ADMIN, STAFF and AGENT are internal actors; USER is a
// customer-facing portal account.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
	RoleAgent = "AGENT"
	RoleUser  = "USER"
)

// StaffRoles are the roles targeted by the status-change fan-out.
var StaffRoles = []string{RoleAdmin, RoleAgent, RoleStaff}

// ShipmentStatus is the closed lifecycle vocabulary for a shipment.
// Values this service does not special-case still pass through storage
// and the API untouched.
type ShipmentStatus string

const (
	StatusCreated           ShipmentStatus = "CREATED"
	StatusDocumentReceived  ShipmentStatus = "DOCUMENT_RECEIVED"
	StatusDocumentsSent     ShipmentStatus = "DOCUMENTS_SENT"
	StatusCargoArrived      ShipmentStatus = "CARGO_ARRIVED"
	StatusTransferredToCFS  ShipmentStatus = "TRANSFERRED_TO_CFS"
	StatusEntryRegistered   ShipmentStatus = "ENTRY_REGISTERED"
	StatusCustomReleased    ShipmentStatus = "CUSTOM_RELEASED"
	StatusCleared           ShipmentStatus = "CLEARED"
	StatusInTransit         ShipmentStatus = "IN_TRANSIT"
	StatusDeliveryConfirmed ShipmentStatus = "DELIVERY_CONFIRMED"
	StatusDelivered         ShipmentStatus = "DELIVERED"
	StatusCompleted         ShipmentStatus = "COMPLETED"
	StatusDocumentRejected  ShipmentStatus = "DOCUMENT_REJECTED"
	StatusReturned          ShipmentStatus = "RETURNED"
	StatusLost              ShipmentStatus = "LOST"
)

// statusLabels maps each status to the human-readable form used in email
// subjects and auto-generated timeline notes.
var statusLabels = map[ShipmentStatus]string{
	StatusCreated:           "Created",
	StatusDocumentReceived:  "Document Received",
	StatusDocumentsSent:     "Documents Sent",
	StatusCargoArrived:      "Cargo Arrived",
	StatusTransferredToCFS:  "Transferred To CFS",
	StatusEntryRegistered:   "Entry Registered",
	StatusCustomReleased:    "Custom Released",
	StatusCleared:           "Cleared",
	StatusInTransit:         "In Transit",
	StatusDeliveryConfirmed: "Delivery Confirmed",
	StatusDelivered:         "Delivered",
	StatusCompleted:         "Completed",
	StatusDocumentRejected:  "Document Rejected",
	StatusReturned:          "Returned",
	StatusLost:              "Lost",
}

// Valid reports whether s is one of the enumerated statuses.
func (s ShipmentStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human-readable form of the status. Unknown values fall
// back to the raw string so pass-through statuses still render.
func (s ShipmentStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// DelayTerminalStatuses are excluded from the overdue sweep. RETURNED and
// LOST shipments stay in the sweep so staff keep getting reminded about them.
var DelayTerminalStatuses = []ShipmentStatus{StatusDelivered, StatusCompleted}

// Notification types.
const (
	NotificationStatusChange        = "STATUS_CHANGE"
	NotificationDeadlineApproaching = "DEADLINE_APPROACHING"
	NotificationDocumentAlert       = "DOCUMENT_ALERT"
)

// Document types and review states.
const (
	DocTypeBillOfLading = "BILL_OF_LADING"
	DocTypeInvoice      = "INVOICE"
	DocTypePackingList  = "PACKING_LIST"
	DocTypeCertificate  = "CERTIFICATE"
	DocTypeOther        = "OTHER"
)

const (
	DocStatusPending  = "PENDING"
	DocStatusApproved = "APPROVED"
	DocStatusRejected = "REJECTED"
)
