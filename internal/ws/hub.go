package ws

import (
	"encoding/json"
	"sync"
	"time"

	"freightdesk/internal/domain"
)

// StatusEvent is the payload pushed to dashboard connections when a
// shipment's status changes.
type StatusEvent struct {
	ShipmentID     uint                  `json:"shipment_id"`
	Reference      string                `json:"reference"`
	PreviousStatus domain.ShipmentStatus `json:"previous_status"`
	NewStatus      domain.ShipmentStatus `json:"new_status"`
	Location       string                `json:"location,omitempty"`
	UpdatedBy      string                `json:"updated_by"`
	At             int64                 `json:"at"`
}

// NewStatusEvent stamps the event with the current time.
func NewStatusEvent(shipmentID uint, reference string, prev, next domain.ShipmentStatus, location, updatedBy string) StatusEvent {
	return StatusEvent{
		ShipmentID:     shipmentID,
		Reference:      reference,
		PreviousStatus: prev,
		NewStatus:      next,
		Location:       location,
		UpdatedBy:      updatedBy,
		At:             time.Now().Unix(),
	}
}

// Client represents a single dashboard WebSocket connection.
type Client struct {
	UserID uint
	Role   string
	Send   chan []byte
	hub    *TrackingHub
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// TrackingHub maintains the set of connected dashboard clients and fans
// status events out to them.
type TrackingHub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewTrackingHub() *TrackingHub {
	return &TrackingHub{clients: make(map[*Client]struct{})}
}

func (h *TrackingHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *TrackingHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Broadcast sends the event to every connected client. Slow clients are
// skipped rather than blocking the caller.
func (h *TrackingHub) Broadcast(ev StatusEvent) {
	data, _ := json.Marshal(ev)
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *TrackingHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
