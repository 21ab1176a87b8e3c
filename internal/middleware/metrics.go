package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prathamjain99/Quant/pkg/metrics"
)

// MetricsOptions 定义指标中间件的可选参数。
type MetricsOptions struct {
	SlowThreshold time.Duration
	SkipPaths     []string
}

// HTTPMetrics 返回一个用于采集 HTTP 请求指标的 Gin 中间件。
func HTTPMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return HTTPMetricsWithOptions(m, MetricsOptions{})
}

// HTTPMetricsWithOptions 返回一个可配置的 HTTP 指标采集中间件。
func HTTPMetricsWithOptions(m *metrics.Metrics, opts MetricsOptions) gin.HandlerFunc {
	skip := make(map[string]struct{})
	for _, path := range opts.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if path == "" {
			path = "unknown"
		}
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		if m != nil {
			m.HTTPInFlight.WithLabelValues(c.Request.Method, path).Inc()
			defer m.HTTPInFlight.WithLabelValues(c.Request.Method, path).Dec()
		}

		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusStr := strconv.Itoa(c.Writer.Status())

		if m != nil {
			m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, statusStr).Inc()
			m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(latency.Seconds())
			if opts.SlowThreshold > 0 && latency > opts.SlowThreshold {
				m.HTTPSlowRequestsTotal.WithLabelValues(c.Request.Method, path).Inc()
			}
		}
	}
}
