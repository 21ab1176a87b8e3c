package product

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/prathamjain99/Quant/internal/middleware"
	"github.com/prathamjain99/Quant/internal/user"
	"github.com/prathamjain99/Quant/pkg/response"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

// CreateRequest 创建产品请求体。
type CreateRequest struct {
	Name            string          `json:"name"            binding:"required,max=128"`
	Type            string          `json:"type"            binding:"required,max=64"`
	UnderlyingAsset string          `json:"underlyingAsset" binding:"omitempty,max=64"`
	Strike          decimal.Decimal `json:"strike"`
	Maturity        *time.Time      `json:"maturity"`
}

// Handler 暴露产品目录的 HTTP 接口。
type Handler struct {
	repo *Repository
}

// NewHandler 创建产品处理器。
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes 挂载 /api/products 路由。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	{
		g.GET("", h.List)
		g.GET("/my-products", h.ListMine)
		g.GET("/:id", h.Get)
		g.POST("", middleware.RequireRoles(string(user.RolePortfolioManager)), h.Create)
	}
}

// List 返回全部产品目录。
func (h *Handler) List(c *gin.Context) {
	products, err := h.repo.FindAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, products)
}

// ListMine 返回当前组合经理名下的产品。
func (h *Handler) ListMine(c *gin.Context) {
	products, err := h.repo.ListByOwner(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, products)
}

// Get 按 ID 返回单个产品。
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, xerrors.InvalidArg("invalid product id"))
		return
	}

	p, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// Create 创建产品，仅组合经理可用（路由层已做角色限制）。
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, xerrors.InvalidArg(err.Error()))
		return
	}

	p := &Product{
		Name:            req.Name,
		Type:            req.Type,
		UnderlyingAsset: req.UnderlyingAsset,
		Strike:          req.Strike,
		Maturity:        req.Maturity,
		OwnerID:         middleware.MustGetUserID(c),
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}
