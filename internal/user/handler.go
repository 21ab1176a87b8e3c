package user

import (
	"github.com/gin-gonic/gin"

	"github.com/prathamjain99/Quant/pkg/response"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

// Handler 暴露认证相关的 HTTP 接口。
type Handler struct {
	svc *Service
}

// NewHandler 创建用户处理器。
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载 /api/auth 路由。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/health", h.Health)
	}
}

// Register 处理用户注册。
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, xerrors.InvalidArg(err.Error()))
		return
	}

	u, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"message":  "User registered successfully",
		"username": u.Username,
	})
}

// Login 处理登录并返回 JWT。
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, xerrors.InvalidArg(err.Error()))
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Health 认证子系统存活检查。
func (h *Handler) Health(c *gin.Context) {
	response.SuccessWithRawData(c, gin.H{
		"status":  "UP",
		"service": "auth-service",
	})
}
