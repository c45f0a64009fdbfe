package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vkotelnikov/defect-tracking-api/internal/dto"
	apierrors "github.com/vkotelnikov/defect-tracking-api/internal/errors"
	"github.com/vkotelnikov/defect-tracking-api/internal/services"
)

// CommentHandler handles defect comment endpoints
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListForDefect returns the live comments of a defect.
// GET /api/defects/:id/comments
func (h *CommentHandler) ListForDefect(c *gin.Context) {
	defectID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid defect ID")
		return
	}

	comments, err := h.commentService.ListForDefect(actorFrom(c), defectID)
	if err != nil {
		h.respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTOs(comments))
}

// Create adds a comment to a defect.
// POST /api/defects/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	defectID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid defect ID")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Comment text is required")
		return
	}

	comment, err := h.commentService.CreateComment(actorFrom(c), services.CreateCommentInput{
		DefectID: defectID,
		Text:     req.Text,
	})
	if err != nil {
		h.respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// Update edits a comment. Authors edit their own; Managers any.
// PUT /api/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid comment ID")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Comment text is required")
		return
	}

	comment, err := h.commentService.UpdateComment(actorFrom(c), id, req.Text)
	if err != nil {
		h.respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// Delete soft-deletes a comment.
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid comment ID")
		return
	}

	if err := h.commentService.DeleteComment(actorFrom(c), id); err != nil {
		h.respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

func (h *CommentHandler) respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, "Comment not found")
	case errors.Is(err, services.ErrDefectNotFound):
		apierrors.NotFound(c, "Defect not found")
	case errors.Is(err, services.ErrCommentForbidden), errors.Is(err, services.ErrDefectForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrCommentTextEmpty):
		apierrors.BadRequest(c, "Comment text is required")
	default:
		apierrors.InternalError(c, "")
	}
}
