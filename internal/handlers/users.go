package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vkotelnikov/defect-tracking-api/internal/dto"
	apierrors "github.com/vkotelnikov/defect-tracking-api/internal/errors"
	"github.com/vkotelnikov/defect-tracking-api/internal/services"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns all users.
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// Get returns a single user.
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		if errors.Is(err, services.ErrUnknownUser) {
			apierrors.NotFound(c, "User not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Update edits a user profile.
// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	var req struct {
		Login       *string `json:"login"`
		DisplayName *string `json:"display_name"`
		RoleID      *uint64 `json:"role_id"`
		Password    *string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(actorFrom(c), id, services.UpdateUserInput{
		Login:       req.Login,
		DisplayName: req.DisplayName,
		RoleID:      req.RoleID,
		Password:    req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownUser):
			apierrors.NotFound(c, "User not found")
		case errors.Is(err, services.ErrForbidden):
			apierrors.Forbidden(c, "")
		case errors.Is(err, services.ErrLoginConflict):
			apierrors.BadRequest(c, "Another user already holds this login")
		case errors.Is(err, services.ErrPasswordTooShort):
			apierrors.BadRequest(c, "Password is too short")
		case errors.Is(err, services.ErrRoleAboveOwn):
			apierrors.BadRequest(c, "Cannot assign a role above your own")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Delete removes a user account. Self-deletion is rejected.
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	err := h.userService.DeleteUser(actorFrom(c), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownUser):
			apierrors.NotFound(c, "User not found")
		case errors.Is(err, services.ErrSelfDelete):
			apierrors.BadRequest(c, "You cannot delete your own account")
		case errors.Is(err, services.ErrForbidden):
			apierrors.Forbidden(c, "")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
