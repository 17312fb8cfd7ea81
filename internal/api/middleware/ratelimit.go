package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vietanh2810/eventhub-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventhub-api/internal/monitoring"
)

// RateLimiter counts requests per route and client IP in fixed windows stored in Redis.
type RateLimiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
}

func NewRateLimiter(client redis.Cmdable, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Limit lets requests through when Redis fails.
func (l *RateLimiter) Limit() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		route := ctx.FullPath()
		key := fmt.Sprintf("ratelimit:%s:%s", route, ctx.ClientIP())

		count, err := l.client.Incr(ctx.Request.Context(), key).Result()
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			ctx.Next()
			return
		}
		if count == 1 {
			if err = l.client.Expire(ctx.Request.Context(), key, l.window).Err(); err != nil {
				zap.L().Warn("rate limiter expire failed", zap.String("key", key), zap.Error(err))
			}
		}

		if count > l.limit {
			monitoring.TrackRateLimited(route)
			ctx.Header("Retry-After", fmt.Sprintf("%.0f", l.window.Seconds()))
			response.RenderErr(ctx, response.ErrTooManyRequests())
			return
		}

		ctx.Next()
	}
}
