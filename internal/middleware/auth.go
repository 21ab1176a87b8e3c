package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/prathamjain99/Quant/pkg/contextx"
	"github.com/prathamjain99/Quant/pkg/jwt"
	"github.com/prathamjain99/Quant/pkg/response"
)

// JWTAuth 解析 Bearer 令牌并将用户身份注入请求上下文
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "missing authorization header", "")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid authorization format", "")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(parts[1], secret)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid or expired token", "")
			c.Abort()
			return
		}

		// 注入 gin 上下文，供 handler 层快捷读取
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		// 同步注入 request context，供 service 层与日志使用
		ctx := contextx.WithUserID(c.Request.Context(), claims.UserID)
		ctx = contextx.WithUsername(ctx, claims.Username)
		ctx = contextx.WithRole(ctx, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles 角色校验中间件，要求当前用户角色属于给定集合之一
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.ErrorWithStatus(c, http.StatusForbidden, "Forbidden", "no role assigned")
			c.Abort()
			return
		}

		if _, ok := allowed[role.(string)]; !ok {
			response.ErrorWithStatus(c, http.StatusForbidden, "Forbidden", "insufficient role permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// --- Getter 辅助函数 ---

func GetUserID(c *gin.Context) (uint64, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	// 支持多种数值类型断言，增强鲁棒性
	switch v := val.(type) {
	case uint64:
		return v, true
	case float64:
		return uint64(v), true
	default:
		return 0, false
	}
}

func MustGetUserID(c *gin.Context) uint64 {
	id, ok := GetUserID(c)
	if !ok {
		panic("user_id not found in context")
	}
	return id
}

func GetUsername(c *gin.Context) string {
	return c.GetString("username")
}

func GetRole(c *gin.Context) string {
	return c.GetString("role")
}
