package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vkotelnikov/defect-tracking-api/internal/dto"
	apierrors "github.com/vkotelnikov/defect-tracking-api/internal/errors"
	"github.com/vkotelnikov/defect-tracking-api/internal/services"
)

// AttachmentHandler handles defect attachment endpoints
type AttachmentHandler struct {
	attachmentService *services.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// ListForDefect returns the attachments of a defect.
// GET /api/defects/:id/attachments
func (h *AttachmentHandler) ListForDefect(c *gin.Context) {
	defectID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid defect ID")
		return
	}

	attachments, err := h.attachmentService.ListForDefect(actorFrom(c), defectID)
	if err != nil {
		h.respondAttachmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentDTOs(attachments))
}

// Create records a file reference on a defect.
// POST /api/defects/:id/attachments
func (h *AttachmentHandler) Create(c *gin.Context) {
	defectID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid defect ID")
		return
	}

	var req struct {
		FileName string `json:"file_name" binding:"required"`
		FilePath string `json:"file_path" binding:"required"`
		FileSize int64  `json:"file_size"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "File name and path are required")
		return
	}

	attachment, err := h.attachmentService.CreateAttachment(actorFrom(c), services.CreateAttachmentInput{
		DefectID: defectID,
		FileName: req.FileName,
		FilePath: req.FilePath,
		FileSize: req.FileSize,
	})
	if err != nil {
		h.respondAttachmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttachmentDTO(*attachment))
}

// Update renames an attachment. Uploaders edit their own; Managers any.
// PUT /api/attachments/:id
func (h *AttachmentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid attachment ID")
		return
	}

	var req struct {
		FileName *string `json:"file_name"`
		FilePath *string `json:"file_path"`
		FileSize *int64  `json:"file_size"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	attachment, err := h.attachmentService.UpdateAttachment(actorFrom(c), id, services.UpdateAttachmentInput{
		FileName: req.FileName,
		FilePath: req.FilePath,
		FileSize: req.FileSize,
	})
	if err != nil {
		h.respondAttachmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentDTO(*attachment))
}

// Delete removes an attachment record.
// DELETE /api/attachments/:id
func (h *AttachmentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid attachment ID")
		return
	}

	if err := h.attachmentService.DeleteAttachment(actorFrom(c), id); err != nil {
		h.respondAttachmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted"})
}

func (h *AttachmentHandler) respondAttachmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAttachmentNotFound):
		apierrors.NotFound(c, "Attachment not found")
	case errors.Is(err, services.ErrDefectNotFound):
		apierrors.NotFound(c, "Defect not found")
	case errors.Is(err, services.ErrAttachmentForbidden), errors.Is(err, services.ErrDefectForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrAttachmentFileName):
		apierrors.BadRequest(c, "File name and path are required")
	default:
		apierrors.InternalError(c, "")
	}
}
