package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSOptions 定义跨域策略参数.
type CORSOptions struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// CORS 是一个 Gin 中间件，用于处理跨域资源共享 (CORS) 请求.
func CORS(opts CORSOptions) gin.HandlerFunc {
	allowOrigins := "*"
	if len(opts.AllowOrigins) > 0 {
		allowOrigins = strings.Join(opts.AllowOrigins, ", ")
	}
	allowMethods := "POST, OPTIONS, GET, PUT, DELETE, PATCH"
	if len(opts.AllowMethods) > 0 {
		allowMethods = strings.Join(opts.AllowMethods, ", ")
	}
	allowHeaders := "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With"
	if len(opts.AllowHeaders) > 0 {
		allowHeaders = strings.Join(opts.AllowHeaders, ", ")
	}

	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", allowOrigins)
		header.Set("Access-Control-Allow-Methods", allowMethods)
		header.Set("Access-Control-Allow-Headers", allowHeaders)
		if len(opts.ExposeHeaders) > 0 {
			header.Set("Access-Control-Expose-Headers", strings.Join(opts.ExposeHeaders, ", "))
		}
		if opts.AllowCredentials {
			header.Set("Access-Control-Allow-Credentials", "true")
		}
		if opts.MaxAge > 0 {
			header.Set("Access-Control-Max-Age", strconv.Itoa(int(opts.MaxAge.Seconds())))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)

			return
		}

		c.Next()
	}
}
