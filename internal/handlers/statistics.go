package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/vkotelnikov/defect-tracking-api/internal/errors"
	"github.com/vkotelnikov/defect-tracking-api/internal/services"
)

// StatisticsHandler handles reporting endpoints. All figures respect the
// caller's visibility: Observers only aggregate over their own defects.
type StatisticsHandler struct {
	statisticsService *services.StatisticsService
}

// NewStatisticsHandler creates a new StatisticsHandler
func NewStatisticsHandler(statisticsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// Overview returns totals, per-status and per-priority counts and the
// five most recent defects.
// GET /api/statistics/overview
func (h *StatisticsHandler) Overview(c *gin.Context) {
	stats, err := h.statisticsService.Overview(actorFrom(c))
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ByStatus returns defect counts and percentages per status.
// GET /api/statistics/defects-by-status
func (h *StatisticsHandler) ByStatus(c *gin.Context) {
	stats, err := h.statisticsService.ByStatus(actorFrom(c))
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ByProject returns per-project defect breakdowns.
// GET /api/statistics/defects-by-project
func (h *StatisticsHandler) ByProject(c *gin.Context) {
	stats, err := h.statisticsService.ByProject(actorFrom(c))
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ByUser returns per-assignee workload figures. Engineers and Managers only.
// GET /api/statistics/defects-by-user
func (h *StatisticsHandler) ByUser(c *gin.Context) {
	stats, err := h.statisticsService.ByUser(actorFrom(c))
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			apierrors.Forbidden(c, "")
			return
		}
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Timeline returns per-day created and closed counts over the window.
// GET /api/statistics/defects-timeline?days=30
func (h *StatisticsHandler) Timeline(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apierrors.BadRequest(c, "days must be a positive number")
			return
		}
		days = parsed
	}

	stats, err := h.statisticsService.Timeline(actorFrom(c), days)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Priorities returns priority distribution metrics.
// GET /api/statistics/priority-metrics
func (h *StatisticsHandler) Priorities(c *gin.Context) {
	stats, err := h.statisticsService.PriorityMetrics(actorFrom(c))
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ProjectDetails returns the aggregate view of one project.
// GET /api/statistics/project/:id/details
func (h *StatisticsHandler) ProjectDetails(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	stats, err := h.statisticsService.ProjectDetails(actorFrom(c), id)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}
