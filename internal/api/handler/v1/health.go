package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/response"
)

// HandleWelcome godoc
// @Summary      Welcome message
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string
// @Router       / [get]
func HandleWelcome(ctx *gin.Context) {
	ctx.String(http.StatusOK, "Welcome to Event Management System API")
}

// HandleHealthcheck godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func HandleNoRoute(ctx *gin.Context) {
	response.RenderErr(ctx, response.ErrRouteNotFound())
}
