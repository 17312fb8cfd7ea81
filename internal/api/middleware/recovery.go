package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/response"
)

func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		err := fmt.Errorf("panic: %v", recovered)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	})
}
