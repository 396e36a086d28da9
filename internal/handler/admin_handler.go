package handler

import (
	"errors"
	"net/http"
	"strconv"

	"freightdesk/internal/domain"
	"freightdesk/internal/repository"
	"freightdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler covers staff account management and the manual delay-scan
// trigger.
type AdminHandler struct {
	userRepo *repository.UserRepository
	authSvc  *service.AuthService
	scanSvc  *service.DelayScanService
}

func NewAdminHandler(userRepo *repository.UserRepository, authSvc *service.AuthService, scanSvc *service.DelayScanService) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, authSvc: authSvc, scanSvc: scanSvc}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.userRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"users": list}})
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=ADMIN STAFF AGENT USER"`
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	u, err := h.authSvc.Register(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": u})
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *AdminHandler) SetUserActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.userRepo.SetActive(uint(id), *req.Active); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TriggerDelayScan runs the overdue sweep on demand. Restricted to ADMIN;
// the summary mirrors what the scheduled run logs.
func (h *AdminHandler) TriggerDelayScan(c *gin.Context) {
	summary, err := h.scanSvc.Run()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "delay scan complete",
		"data":    summary,
	})
}

// roleOptions documents the assignable roles for admin UIs.
func (h *AdminHandler) RoleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"roles": []string{domain.RoleAdmin, domain.RoleStaff, domain.RoleAgent, domain.RoleUser},
	}})
}
