package ws

import (
	"encoding/json"
	"testing"

	"freightdesk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return &Client{UserID: 1, Role: domain.RoleStaff, Send: make(chan []byte, 4)}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewTrackingHub()
	a := newTestClient()
	b := newTestClient()
	hub.Register(a)
	hub.Register(b)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Broadcast(NewStatusEvent(9, "FD-2026-ABCD1234", domain.StatusInTransit, domain.StatusCargoArrived, "Mombasa", "Jane"))

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.Send:
			var ev StatusEvent
			require.NoError(t, json.Unmarshal(data, &ev))
			assert.Equal(t, uint(9), ev.ShipmentID)
			assert.Equal(t, "FD-2026-ABCD1234", ev.Reference)
			assert.Equal(t, domain.StatusInTransit, ev.PreviousStatus)
			assert.Equal(t, domain.StatusCargoArrived, ev.NewStatus)
			assert.NotZero(t, ev.At)
		default:
			t.Fatal("client did not receive the event")
		}
	}
}

func TestHubSkipsSlowClients(t *testing.T) {
	hub := NewTrackingHub()
	slow := &Client{Send: make(chan []byte)} // unbuffered, nobody reading
	fast := newTestClient()
	hub.Register(slow)
	hub.Register(fast)

	hub.Broadcast(NewStatusEvent(1, "REF", domain.StatusCreated, domain.StatusInTransit, "", "Jane"))

	assert.Len(t, fast.Send, 1)
	assert.Len(t, slow.Send, 0)
}

func TestClientCloseUnregisters(t *testing.T) {
	hub := NewTrackingHub()
	c := newTestClient()
	hub.Register(c)
	require.Equal(t, 1, hub.ClientCount())

	c.Close()
	assert.Equal(t, 0, hub.ClientCount())
	// Second close is a no-op.
	c.Close()
}
