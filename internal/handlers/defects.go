package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vkotelnikov/defect-tracking-api/internal/dto"
	apierrors "github.com/vkotelnikov/defect-tracking-api/internal/errors"
	"github.com/vkotelnikov/defect-tracking-api/internal/services"
	"github.com/vkotelnikov/defect-tracking-api/internal/utils"
)

// DefectHandler handles defect endpoints
type DefectHandler struct {
	defectService *services.DefectService
}

// NewDefectHandler creates a new DefectHandler
func NewDefectHandler(defectService *services.DefectService) *DefectHandler {
	return &DefectHandler{defectService: defectService}
}

// List returns defects visible to the caller, filtered and paginated.
// Observers only see defects assigned to them.
// GET /api/defects?project_id=&status_id=&responsible_id=&page=&limit=
func (h *DefectHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	input := services.ListDefectsInput{
		ProjectID:     queryID(c, "project_id"),
		StatusID:      queryID(c, "status_id"),
		ResponsibleID: queryID(c, "responsible_id"),
		Page:          params.Page,
		PageSize:      params.Limit,
	}

	defects, total, err := h.defectService.ListDefects(actorFrom(c), input)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToDefectListResponse(defects, params.Page, params.Limit, total))
}

// Get returns a single defect with its related rows.
// GET /api/defects/:id
func (h *DefectHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid defect ID")
		return
	}

	defect, err := h.defectService.GetDefect(actorFrom(c), id)
	if err != nil {
		h.respondDefectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDefectDTO(*defect))
}

// Create registers a new defect. Engineers and Managers only.
// POST /api/defects
func (h *DefectHandler) Create(c *gin.Context) {
	var req struct {
		ProjectID     uint64     `json:"project_id" binding:"required"`
		StatusID      uint64     `json:"status_id"`
		ResponsibleID *uint64    `json:"responsible_id"`
		Name          string     `json:"name" binding:"required"`
		Description   string     `json:"description"`
		Priority      int16      `json:"priority"`
		DueDate       *time.Time `json:"due_date"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Project and defect name are required")
		return
	}

	defect, err := h.defectService.CreateDefect(actorFrom(c), services.CreateDefectInput{
		ProjectID:     req.ProjectID,
		StatusID:      req.StatusID,
		ResponsibleID: req.ResponsibleID,
		Info: services.InfoInput{
			DefectName:        req.Name,
			DefectDescription: req.Description,
			Priority:          req.Priority,
			DueDate:           req.DueDate,
		},
	})
	if err != nil {
		h.respondDefectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDefectDTO(*defect))
}

// Update edits a defect. Changed fields are written to the change log.
// Engineers may only update defects assigned to them.
// PUT /api/defects/:id
func (h *DefectHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid defect ID")
		return
	}

	var req struct {
		ProjectID        *uint64    `json:"project_id"`
		StatusID         *uint64    `json:"status_id"`
		ResponsibleID    *uint64    `json:"responsible_id"`
		ClearResponsible bool       `json:"clear_responsible"`
		Name             *string    `json:"name"`
		Description      *string    `json:"description"`
		Priority         *int16     `json:"priority"`
		DueDate          *time.Time `json:"due_date"`
		ClearDueDate     bool       `json:"clear_due_date"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	defect, err := h.defectService.UpdateDefect(actorFrom(c), id, services.UpdateDefectInput{
		ProjectID:         req.ProjectID,
		StatusID:          req.StatusID,
		ResponsibleID:     req.ResponsibleID,
		ClearResponsible:  req.ClearResponsible,
		DefectName:        req.Name,
		DefectDescription: req.Description,
		Priority:          req.Priority,
		DueDate:           req.DueDate,
		ClearDueDate:      req.ClearDueDate,
	})
	if err != nil {
		h.respondDefectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDefectDTO(*defect))
}

// Delete removes a defect. The change log keeps its deletion marker.
// DELETE /api/defects/:id
func (h *DefectHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid defect ID")
		return
	}

	if err := h.defectService.DeleteDefect(actorFrom(c), id); err != nil {
		h.respondDefectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Defect deleted"})
}

// History returns the ordered change log of a defect.
// GET /api/defects/:id/history
func (h *DefectHandler) History(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid defect ID")
		return
	}

	rows, err := h.defectService.GetHistory(actorFrom(c), id)
	if err != nil {
		h.respondDefectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHistoryDTOs(rows))
}

func (h *DefectHandler) respondDefectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDefectNotFound):
		apierrors.NotFound(c, "Defect not found")
	case errors.Is(err, services.ErrDefectForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrDefectConflict):
		apierrors.Conflict(c, "Defect was modified by another user, reload and retry")
	case errors.Is(err, services.ErrDefectNameNeeded):
		apierrors.BadRequest(c, "Defect name is required")
	case errors.Is(err, services.ErrBadPriority):
		apierrors.BadRequest(c, "Priority must be at least 1")
	default:
		apierrors.InternalError(c, "")
	}
}

func queryID(c *gin.Context, name string) *uint64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
