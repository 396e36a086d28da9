package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"freightdesk/internal/domain"
	"freightdesk/internal/middleware"
	"freightdesk/internal/repository"
	"freightdesk/internal/service"
	"freightdesk/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ShipmentHandler struct {
	svc  *service.ShipmentService
	repo *repository.ShipmentRepository
	hub  *ws.TrackingHub
}

func NewShipmentHandler(svc *service.ShipmentService, repo *repository.ShipmentRepository, hub *ws.TrackingHub) *ShipmentHandler {
	return &ShipmentHandler{svc: svc, repo: repo, hub: hub}
}

type createShipmentRequest struct {
	ClientName      string     `json:"client_name"`
	Origin          string     `json:"origin" binding:"required"`
	Destination     string     `json:"destination" binding:"required"`
	ExpectedArrival *time.Time `json:"expected_arrival"`
	CustomerID      *uint      `json:"customer_id"`
}

func (h *ShipmentHandler) Create(c *gin.Context) {
	var req createShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	actor := actorFrom(c)
	sh, err := h.svc.Create(actor, service.CreateInput{
		ClientName:      req.ClientName,
		Origin:          req.Origin,
		Destination:     req.Destination,
		ExpectedArrival: req.ExpectedArrival,
		CustomerID:      req.CustomerID,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": sh})
}

func (h *ShipmentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	customerID, _ := strconv.ParseUint(c.Query("customer_id"), 10, 64)
	filter := repository.ListFilter{
		Status:     domain.ShipmentStatus(c.Query("status")),
		CustomerID: uint(customerID),
		Limit:      limit,
		Offset:     offset,
	}
	list, total, err := h.repo.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"shipments": list, "total": total}})
}

func (h *ShipmentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}
	sh, err := h.repo.GetByIDFull(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "shipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": sh})
}

// Track is the public status lookup by reference; it exposes only the status
// and timeline, not customer or staff details.
func (h *ShipmentHandler) Track(c *gin.Context) {
	sh, err := h.repo.GetByReference(c.Param("reference"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "shipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"reference":        sh.Reference,
		"status":           sh.Status,
		"status_label":     sh.Status.Label(),
		"origin":           sh.Origin,
		"destination":      sh.Destination,
		"expected_arrival": sh.ExpectedArrival,
		"timeline_events":  sh.TimelineEvents,
	}})
}

type updateShipmentRequest struct {
	ClientName      *string    `json:"client_name"`
	Origin          *string    `json:"origin"`
	Destination     *string    `json:"destination"`
	ExpectedArrival *time.Time `json:"expected_arrival"`
	CustomerID      *uint      `json:"customer_id"`
}

func (h *ShipmentHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}
	var req updateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	sh, err := h.repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "shipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "lookup failed"})
		return
	}
	if req.ClientName != nil {
		sh.ClientName = *req.ClientName
	}
	if req.Origin != nil {
		sh.Origin = *req.Origin
	}
	if req.Destination != nil {
		sh.Destination = *req.Destination
	}
	if req.ExpectedArrival != nil {
		sh.ExpectedArrival = req.ExpectedArrival
	}
	if req.CustomerID != nil {
		sh.CustomerID = req.CustomerID
	}
	if err := h.repo.Update(sh); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": sh})
}

type updateStatusRequest struct {
	Status   domain.ShipmentStatus `json:"status" binding:"required"`
	Notes    string                `json:"notes"`
	Location string                `json:"location"`
}

// UpdateStatus runs the status-transition workflow and pushes the change
// onto the dashboard tracking feed.
func (h *ShipmentHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	actor := actorFrom(c)
	res, err := h.svc.UpdateStatus(actor, uint(id), req.Status, req.Notes, req.Location)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		case errors.Is(err, service.ErrShipmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "shipment not found"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}
	if res.PreviousStatus != res.Shipment.Status {
		h.hub.Broadcast(ws.NewStatusEvent(
			res.Shipment.ID, res.Shipment.Reference,
			res.PreviousStatus, res.Shipment.Status,
			req.Location, actor.Name,
		))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"shipment":           res.Shipment,
		"previous_status":    res.PreviousStatus,
		"notifications_sent": res.NotificationsSent,
	}})
}

// actorFrom builds the explicit acting-user parameter from the request
// context; nil when the request is unauthenticated.
func actorFrom(c *gin.Context) *service.Actor {
	id := middleware.GetUserID(c)
	if id == 0 {
		return nil
	}
	return &service.Actor{ID: id, Name: middleware.GetUserName(c)}
}
