package activity

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prathamjain99/Quant/internal/middleware"
	"github.com/prathamjain99/Quant/pkg/response"
)

// Handler 暴露活动日志查询接口。
type Handler struct {
	repo *Repository
}

// NewHandler 创建活动日志处理器。
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes 挂载 /api/activity 路由。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activity", h.Recent)
}

// Recent 返回当前用户最近的活动记录，支持 ?limit= 调整条数。
func (h *Handler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.repo.ListRecentByUsername(c.Request.Context(), middleware.GetUsername(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, logs)
}
