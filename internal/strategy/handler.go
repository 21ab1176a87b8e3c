package strategy

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prathamjain99/Quant/internal/middleware"
	"github.com/prathamjain99/Quant/internal/user"
	"github.com/prathamjain99/Quant/pkg/response"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

// Handler 暴露策略相关的 HTTP 接口。
type Handler struct {
	svc *Service
}

// NewHandler 创建策略处理器。
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载 /api/strategies 路由（调用方需已套上 JWT 鉴权）。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/strategies")
	{
		g.GET("", h.List)
		g.GET("/statistics", h.Statistics)
		g.GET("/health", h.Health)
		g.GET("/:id", h.Get)
		g.POST("", h.Create)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.POST("/:id/publish", h.Publish)
		g.POST("/:id/unpublish", h.Unpublish)
	}
}

// viewer 从已鉴权的请求上下文还原当前主体。
// 角色字符串不在此处校验：未知角色在角色分发处自然得到空结果。
func viewer(c *gin.Context) *user.User {
	return &user.User{
		ID:       middleware.MustGetUserID(c),
		Username: middleware.GetUsername(c),
		Role:     user.Role(middleware.GetRole(c)),
	}
}

func pathID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, xerrors.InvalidArg("invalid strategy id")
	}
	return id, nil
}

// List 列出当前用户可见的策略，支持 ?search= 过滤。
func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), viewer(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// Get 返回单条策略。
func (h *Handler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := h.svc.Get(c.Request.Context(), viewer(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Create 创建策略。
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, xerrors.InvalidArg(err.Error()))
		return
	}

	dto, err := h.svc.Create(c.Request.Context(), viewer(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Update 更新策略。
func (h *Handler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, xerrors.InvalidArg(err.Error()))
		return
	}

	dto, err := h.svc.Update(c.Request.Context(), viewer(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Delete 删除策略。
func (h *Handler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), viewer(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Strategy deleted successfully"})
}

// Publish 发布策略。
func (h *Handler) Publish(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := h.svc.Publish(c.Request.Context(), viewer(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Unpublish 收回策略。
func (h *Handler) Unpublish(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := h.svc.Unpublish(c.Request.Context(), viewer(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Statistics 返回调用者名下的策略统计。
func (h *Handler) Statistics(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), viewer(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// Health 策略子系统存活检查。
func (h *Handler) Health(c *gin.Context) {
	response.SuccessWithRawData(c, gin.H{
		"status":  "UP",
		"service": "strategy-service",
	})
}
