package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/vkotelnikov/defect-tracking-api/internal/errors"
	"github.com/vkotelnikov/defect-tracking-api/internal/repository"
)

// ReferenceHandler serves the fixed lookup tables
type ReferenceHandler struct {
	referenceRepo repository.ReferenceRepository
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(referenceRepo repository.ReferenceRepository) *ReferenceHandler {
	return &ReferenceHandler{referenceRepo: referenceRepo}
}

// Roles returns all roles.
// GET /api/roles
func (h *ReferenceHandler) Roles(c *gin.Context) {
	roles, err := h.referenceRepo.ListRoles()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, roles)
}

// ProjectStatuses returns all project statuses.
// GET /api/project-statuses
func (h *ReferenceHandler) ProjectStatuses(c *gin.Context) {
	statuses, err := h.referenceRepo.ListProjectStatuses()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// DefectStatuses returns all defect statuses.
// GET /api/defect-statuses
func (h *ReferenceHandler) DefectStatuses(c *gin.Context) {
	statuses, err := h.referenceRepo.ListDefectStatuses()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, statuses)
}
