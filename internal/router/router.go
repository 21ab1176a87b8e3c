// Package router 组装 HTTP 引擎：中间件链与各业务模块的路由挂载。
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/prathamjain99/Quant/internal/activity"
	"github.com/prathamjain99/Quant/internal/config"
	"github.com/prathamjain99/Quant/internal/dashboard"
	"github.com/prathamjain99/Quant/internal/middleware"
	"github.com/prathamjain99/Quant/internal/portfolio"
	"github.com/prathamjain99/Quant/internal/product"
	"github.com/prathamjain99/Quant/internal/strategy"
	"github.com/prathamjain99/Quant/internal/trade"
	"github.com/prathamjain99/Quant/internal/user"
	"github.com/prathamjain99/Quant/pkg/metrics"
	"github.com/prathamjain99/Quant/pkg/response"
	"github.com/prathamjain99/Quant/pkg/server"
)

// Handlers 汇集所有待挂载的业务处理器。
type Handlers struct {
	User      *user.Handler
	Strategy  *strategy.Handler
	Trade     *trade.Handler
	Product   *product.Handler
	Portfolio *portfolio.Handler
	Dashboard *dashboard.Handler
	Activity  *activity.Handler
}

// New 构建完整的 Gin 引擎。
// 中间件顺序：Recovery -> RequestID -> Logger -> CORS -> Metrics -> RateLimit。
func New(conf *config.Config, logger *slog.Logger, m *metrics.Metrics, h Handlers) *gin.Engine {
	middlewares := []gin.HandlerFunc{
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
	}
	if conf.CORS.Enabled {
		middlewares = append(middlewares, middleware.CORS(middleware.CORSOptions{
			AllowOrigins:     conf.CORS.AllowOrigins,
			AllowMethods:     conf.CORS.AllowMethods,
			AllowHeaders:     conf.CORS.AllowHeaders,
			ExposeHeaders:    conf.CORS.ExposeHeaders,
			AllowCredentials: conf.CORS.AllowCredentials,
			MaxAge:           conf.CORS.MaxAge,
		}))
	}
	if m != nil {
		middlewares = append(middlewares, middleware.HTTPMetricsWithOptions(m, middleware.MetricsOptions{
			SlowThreshold: conf.Log.SlowThreshold,
			SkipPaths:     []string{"/healthz"},
		}))
	}
	if conf.RateLimit.Enabled {
		middlewares = append(middlewares, middleware.NewLocalRateLimit(conf.RateLimit.Rate, conf.RateLimit.Burst))
	}

	engine := server.NewDefaultGinEngine(middlewares...)
	if len(conf.Server.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(conf.Server.HTTP.TrustedProxies)
	}

	engine.GET("/healthz", func(c *gin.Context) {
		response.SuccessWithRawData(c, gin.H{
			"status":  "UP",
			"version": conf.Version,
		})
	})

	api := engine.Group("/api")

	// 注册与登录不需要鉴权。
	h.User.RegisterRoutes(api)

	authed := api.Group("", middleware.JWTAuth(conf.JWT.Secret))
	{
		h.Strategy.RegisterRoutes(authed)
		h.Trade.RegisterRoutes(authed)
		h.Product.RegisterRoutes(authed)
		h.Portfolio.RegisterRoutes(authed)
		h.Dashboard.RegisterRoutes(authed)
		h.Activity.RegisterRoutes(authed)
	}

	return engine
}
