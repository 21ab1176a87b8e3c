package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/prathamjain99/Quant/internal/middleware"
	"github.com/prathamjain99/Quant/internal/user"
	"github.com/prathamjain99/Quant/pkg/response"
)

// Handler 暴露仪表盘的 HTTP 接口。
type Handler struct {
	svc *Service
}

// NewHandler 创建仪表盘处理器。
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载 /api/dashboard 路由（调用方需已套上 JWT 鉴权）。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/dashboard")
	{
		g.GET("/summary", h.Summary)
	}
}

// Summary 返回当前用户的仪表盘概览。
func (h *Handler) Summary(c *gin.Context) {
	viewer := &user.User{
		ID:       middleware.MustGetUserID(c),
		Username: middleware.GetUsername(c),
		Role:     user.Role(middleware.GetRole(c)),
	}
	summary, err := h.svc.Summarize(c.Request.Context(), viewer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}
