package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vkotelnikov/defect-tracking-api/internal/middleware"
	"github.com/vkotelnikov/defect-tracking-api/internal/services"
)

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func actorFrom(c *gin.Context) services.Actor {
	identity, _ := middleware.GetIdentity(c)
	if identity == nil {
		return services.Actor{}
	}
	return services.Actor{ID: identity.UserID, RoleID: identity.RoleID}
}
