package handler

import (
	"net/http"
	"time"

	"freightdesk/internal/middleware"
	"freightdesk/internal/repository"
	"freightdesk/internal/ws"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	shipmentRepo     *repository.ShipmentRepository
	customerRepo     *repository.CustomerRepository
	notificationRepo *repository.NotificationRepository
	hub              *ws.TrackingHub
}

func NewDashboardHandler(shipmentRepo *repository.ShipmentRepository, customerRepo *repository.CustomerRepository, notificationRepo *repository.NotificationRepository, hub *ws.TrackingHub) *DashboardHandler {
	return &DashboardHandler{
		shipmentRepo:     shipmentRepo,
		customerRepo:     customerRepo,
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// Stats returns the dashboard counters: shipments by status, overdue count,
// customers, the caller's unread notifications, and live feed connections.
func (h *DashboardHandler) Stats(c *gin.Context) {
	byStatus, err := h.shipmentRepo.CountByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "stats failed"})
		return
	}
	overdue, err := h.shipmentRepo.CountOverdue(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "stats failed"})
		return
	}
	customers, err := h.customerRepo.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "stats failed"})
		return
	}
	unread, err := h.notificationRepo.CountUnread(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"shipments_by_status":  byStatus,
		"overdue_shipments":    overdue,
		"customers":            customers,
		"unread_notifications": unread,
		"live_connections":     h.hub.ClientCount(),
	}})
}
