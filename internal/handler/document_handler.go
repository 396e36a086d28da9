package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"freightdesk/internal/domain"
	"freightdesk/internal/middleware"
	"freightdesk/internal/models"
	"freightdesk/internal/repository"
	"freightdesk/internal/service"
	"freightdesk/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentHandler struct {
	repo         *repository.DocumentRepository
	shipmentRepo *repository.ShipmentRepository
	notifySvc    *service.NotifyService
	shipmentSvc  *service.ShipmentService
	cloud        cloudinary.Client
}

func NewDocumentHandler(repo *repository.DocumentRepository, shipmentRepo *repository.ShipmentRepository, notifySvc *service.NotifyService, shipmentSvc *service.ShipmentService, cloud cloudinary.Client) *DocumentHandler {
	return &DocumentHandler{
		repo:         repo,
		shipmentRepo: shipmentRepo,
		notifySvc:    notifySvc,
		shipmentSvc:  shipmentSvc,
		cloud:        cloud,
	}
}

// Upload accepts a multipart file plus document metadata and attaches the
// stored file to the shipment.
func (h *DocumentHandler) Upload(c *gin.Context) {
	shipmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid shipment id"})
		return
	}
	sh, err := h.shipmentRepo.GetByID(uint(shipmentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "shipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "lookup failed"})
		return
	}

	docType := c.PostForm("type")
	switch docType {
	case domain.DocTypeBillOfLading, domain.DocTypeInvoice, domain.DocTypePackingList, domain.DocTypeCertificate, domain.DocTypeOther:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid document type"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file is required"})
		return
	}
	var fileURL string
	if h.cloud != nil {
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "cannot read file"})
			return
		}
		defer f.Close()
		publicID := fmt.Sprintf("%s-%s", sh.Reference, uuid.NewString()[:8])
		fileURL, err = h.cloud.UploadDocument(c.Request.Context(), f, "shipment-documents", publicID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "upload failed"})
			return
		}
	}

	doc := &models.Document{
		ShipmentID:   sh.ID,
		Name:         fileHeader.Filename,
		Type:         docType,
		Status:       domain.DocStatusPending,
		FileURL:      fileURL,
		UploadedByID: middleware.GetUserID(c),
	}
	if err := h.repo.Create(doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": doc})
}

func (h *DocumentHandler) ListByShipment(c *gin.Context) {
	shipmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid shipment id"})
		return
	}
	list, err := h.repo.ListByShipmentID(uint(shipmentID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"documents": list}})
}

type reviewRequest struct {
	Status       string `json:"status" binding:"required"` // APPROVED | REJECTED
	Notes        string `json:"notes"`
	FlagShipment bool   `json:"flag_shipment"` // REJECTED only: move shipment to DOCUMENT_REJECTED
}

// Review approves or rejects a document. A rejection alerts the uploader
// and, when asked, runs the status workflow to flag the shipment.
func (h *DocumentHandler) Review(c *gin.Context) {
	docID, err := strconv.ParseUint(c.Param("docId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid document id"})
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.Status != domain.DocStatusApproved && req.Status != domain.DocStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status must be APPROVED or REJECTED"})
		return
	}
	doc, err := h.repo.GetByID(uint(docID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "lookup failed"})
		return
	}
	doc.Status = req.Status
	doc.ReviewNotes = req.Notes
	if err := h.repo.Update(doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "update failed"})
		return
	}

	if req.Status == domain.DocStatusRejected {
		msg := fmt.Sprintf("Document %q was rejected", doc.Name)
		if req.Notes != "" {
			msg += ": " + req.Notes
		}
		// Alert is best-effort; the review itself is already saved.
		_ = h.notifySvc.NotifyDocumentAlert(doc.UploadedByID, doc.ShipmentID, doc.ID, "Document rejected", msg)
		if req.FlagShipment {
			_, _ = h.shipmentSvc.UpdateStatus(actorFrom(c), doc.ShipmentID, domain.StatusDocumentRejected, msg, "")
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": doc})
}
