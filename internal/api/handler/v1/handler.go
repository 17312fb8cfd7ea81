package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventhub-api/internal/api/middleware"
	"github.com/vietanh2810/eventhub-api/internal/domain"
)

// pathID parses a numeric path parameter and renders 400 when it is malformed.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(msgInvalidID))
		return 0, false
	}

	return uint(id), true
}

// actor returns the caller set by middleware.VerifyJWT. It renders 401 when the route
// was mounted without authentication.
func actor(ctx *gin.Context) (domain.Actor, bool) {
	a, ok := middleware.Actor(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("Not authorized, no token"))
	}

	return a, ok
}
