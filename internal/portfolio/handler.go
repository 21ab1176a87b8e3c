package portfolio

import (
	"github.com/gin-gonic/gin"

	"github.com/prathamjain99/Quant/internal/middleware"
	"github.com/prathamjain99/Quant/pkg/response"
)

// Handler 暴露组合概览的 HTTP 接口。
type Handler struct {
	svc *Service
}

// NewHandler 创建组合处理器。
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载 /api/portfolio 路由（调用方需已套上 JWT 鉴权）。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/portfolio")
	{
		g.GET("/summary", h.Summary)
	}
}

// Summary 返回当前用户的组合概览。
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.svc.Summarize(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}
