// Package contextx 提供了一组用于安全地在 context.Context 中注入与提取业务上下文信息（如用户 ID、角色、IP 等）的工具函数。
// 它通过使用私有类型作为 Key，有效防止了跨包的 Key 冲突。
package contextx

import (
	"context"
)

type contextKey int

const (
	UserIDKey    contextKey = iota // 用户唯一标识 Key。
	UsernameKey                    // 用户名 Key。
	RoleKey                        // 用户角色 Key。
	IPKey                          // 客户端 IP Key。
	UAKey                          // 用户代理 Key。
	RequestIDKey                   // 请求唯一标识 Key。
)

// KeyNames 映射 Key 到日志字段名。
var KeyNames = map[contextKey]string{
	UserIDKey:    "user_id",
	UsernameKey:  "username",
	RoleKey:      "user_role",
	IPKey:        "client_ip",
	UAKey:        "user_agent",
	RequestIDKey: "request_id",
}

// WithRequestID 将请求 ID 注入到 Context 中。
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID 从 Context 中提取请求 ID。
func GetRequestID(ctx context.Context) string {
	if val, ok := ctx.Value(RequestIDKey).(string); ok {
		return val
	}
	return ""
}

// WithUserID 将用户 ID 注入到给定的 Context 中。
func WithUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID 从 Context 中尝试提取用户 ID，若不存在则返回 0。
func GetUserID(ctx context.Context) uint64 {
	if val, ok := ctx.Value(UserIDKey).(uint64); ok {
		return val
	}
	return 0
}

// WithUsername 将用户名注入到 Context 中。
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, UsernameKey, username)
}

// GetUsername 从 Context 中尝试提取用户名，若不存在则返回空字符串。
func GetUsername(ctx context.Context) string {
	if val, ok := ctx.Value(UsernameKey).(string); ok {
		return val
	}
	return ""
}

// WithRole 将用户角色信息注入到 Context 中。
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, RoleKey, role)
}

// GetRole 从 Context 中尝试提取用户角色，若不存在则返回空字符串。
func GetRole(ctx context.Context) string {
	if val, ok := ctx.Value(RoleKey).(string); ok {
		return val
	}
	return ""
}

// WithIP 将客户端 IP 地址注入到 Context 中。
func WithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, IPKey, ip)
}

// GetIP 从 Context 中尝试提取客户端 IP，若不存在则返回默认回环地址。
func GetIP(ctx context.Context) string {
	if val, ok := ctx.Value(IPKey).(string); ok {
		return val
	}
	return "0.0.0.0"
}

// WithUserAgent 将 User-Agent 信息注入到 Context 中。
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, UAKey, ua)
}

// GetUserAgent 从 Context 中尝试提取 User-Agent，若不存在则返回 "Unknown"。
func GetUserAgent(ctx context.Context) string {
	if val, ok := ctx.Value(UAKey).(string); ok {
		return val
	}
	return "Unknown"
}
