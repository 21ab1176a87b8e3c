package trade

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prathamjain99/Quant/internal/middleware"
	"github.com/prathamjain99/Quant/pkg/response"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

// UpdateStatusRequest 状态更新请求体。
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Handler 暴露交易相关的 HTTP 接口。
type Handler struct {
	svc *Service
}

// NewHandler 创建交易处理器。
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载 /api/trades 路由（调用方需已套上 JWT 鉴权）。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/trades")
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("/book", h.Book)
		g.PUT("/:id/status", h.UpdateStatus)
	}
}

func pathID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, xerrors.InvalidArg("invalid trade id")
	}
	return id, nil
}

// Book 簿记一笔交易。
func (h *Handler) Book(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, xerrors.InvalidArg(err.Error()))
		return
	}

	result, err := h.svc.Book(c.Request.Context(), middleware.MustGetUserID(c), middleware.GetUsername(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// List 返回当前用户的全部交易。
func (h *Handler) List(c *gin.Context) {
	trades, err := h.svc.List(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, trades)
}

// Get 返回当前用户的单笔交易。
func (h *Handler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := h.svc.Get(c.Request.Context(), middleware.MustGetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// UpdateStatus 更新交易状态。
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, xerrors.InvalidArg(err.Error()))
		return
	}

	dto, err := h.svc.UpdateStatus(c.Request.Context(), middleware.MustGetUserID(c), middleware.GetUsername(c), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
