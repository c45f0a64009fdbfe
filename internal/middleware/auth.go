package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vkotelnikov/defect-tracking-api/internal/constants"
	apierrors "github.com/vkotelnikov/defect-tracking-api/internal/errors"
	"github.com/vkotelnikov/defect-tracking-api/internal/policy"
	"github.com/vkotelnikov/defect-tracking-api/internal/token"
)

// RequireAuth validates the access token from the auth cookie (or a
// bearer header as fallback) and stores the caller identity in the
// request context.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		signed := extractToken(c)
		if signed == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		identity, err := token.Parse(signed, secret)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIdentity, identity)
		c.Next()
	}
}

// RequireAction gates a route on the policy's role-set membership for
// the action. Must run after RequireAuth.
func RequireAction(action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, exists := GetIdentity(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !policy.Allows(identity.RoleID, action) {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetIdentity retrieves the authenticated caller from the context
func GetIdentity(c *gin.Context) (*token.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return nil, false
	}

	identity, ok := value.(*token.Identity)
	if !ok {
		return nil, false
	}
	return identity, true
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(constants.AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
