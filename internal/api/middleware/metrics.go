package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventhub-api/internal/monitoring"
)

// Metrics labels requests with the route pattern so ids do not blow up cardinality.
func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		monitoring.TrackRequest(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status()), time.Since(start))
	}
}
