package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vkotelnikov/defect-tracking-api/internal/constants"
	"github.com/vkotelnikov/defect-tracking-api/internal/dto"
	apierrors "github.com/vkotelnikov/defect-tracking-api/internal/errors"
	"github.com/vkotelnikov/defect-tracking-api/internal/middleware"
	"github.com/vkotelnikov/defect-tracking-api/internal/services"
	"github.com/vkotelnikov/defect-tracking-api/internal/token"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	jwtSecret   string
	tokenTTL    time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
	}
}

// Login authenticates a user and sets the access token cookie.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Login and password are required")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, "Invalid login or password")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	identity := token.Identity{
		UserID:      user.ID,
		Login:       user.Login,
		DisplayName: user.DisplayName,
		RoleID:      user.RoleID,
		RoleName:    user.Role.Name,
	}

	signed, expires, err := token.Issue(identity, h.jwtSecret, h.tokenTTL)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.AccessTokenCookie, signed, int(h.tokenTTL.Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"token":      signed,
		"expires_at": expires,
		"user":       dto.ToUserDTO(*user),
	})
}

// Logout clears the access token cookie.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.AccessTokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Register creates a new user account. Managers only.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var req struct {
		Login       string `json:"login" binding:"required"`
		DisplayName string `json:"display_name" binding:"required"`
		Password    string `json:"password" binding:"required"`
		RoleID      uint64 `json:"role_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Login, display name, password and role are required")
		return
	}

	user, err := h.authService.Register(services.Actor{ID: identity.UserID, RoleID: identity.RoleID}, services.RegisterInput{
		Login:       req.Login,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		RoleID:      req.RoleID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoginTaken):
			apierrors.BadRequest(c, "A user with this login already exists")
		case errors.Is(err, services.ErrPasswordTooShort):
			apierrors.BadRequest(c, "Password is too short")
		case errors.Is(err, services.ErrRoleAboveOwn):
			apierrors.BadRequest(c, "Cannot assign a role above your own")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Me returns the authenticated caller as carried by the token claims.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           identity.UserID,
		"login":        identity.Login,
		"display_name": identity.DisplayName,
		"role_id":      identity.RoleID,
		"role_name":    identity.RoleName,
	})
}
