package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	go_redis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/prathamjain99/Quant/pkg/limiter"
	"github.com/prathamjain99/Quant/pkg/response"
)

// RateLimit 构造一个通用的 Gin 限流中间件。
// 默认策略：使用客户端 IP 作为限流标识。
func RateLimit(l limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		allowed, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			// 遵循 Fail-Open 策略：限流组件故障时不阻断业务，但必须记录告警日志。
			slog.ErrorContext(c.Request.Context(), "rate limiter internal error, fail-open applied", "key", key, "error", err)
			c.Next()
			return
		}

		if !allowed {
			slog.WarnContext(c.Request.Context(), "request rejected by rate limiter", "key", key, "path", c.Request.URL.Path)
			response.ErrorWithStatus(c, http.StatusTooManyRequests, "too many requests", "access rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}

// NewRedisRateLimit 创建基于 Redis 分布式限流的中间件。
// 适用于需要跨实例限流的场景。
func NewRedisRateLimit(client *go_redis.Client, limit int, window int) gin.HandlerFunc {
	redisLimiter := limiter.NewRedisLimiter(client, limit, time.Duration(window)*time.Second)
	return RateLimit(redisLimiter)
}

// NewLocalRateLimit 创建基于本地内存限流的中间件。
// 适用于单实例部署或不需要严格全局限流的场景。
func NewLocalRateLimit(limit int, burst int) gin.HandlerFunc {
	localLimiter := limiter.NewLocalLimiter(rate.Limit(limit), burst)
	return RateLimit(localLimiter)
}
