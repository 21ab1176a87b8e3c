// Package response 提供了统一的 HTTP 响应封装，支持业务错误码映射及分页数据包装。
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPStatusProvider 定义了能够提供 HTTP 状态码的错误接口。
// 用于支持跨层级的错误透传与状态码自动映射。
type HTTPStatusProvider interface {
	HTTPStatus() int // 返回对应的 HTTP 标准状态码
}

// Success 发送一个标准的成功响应。
// 默认：HTTP 200，业务码 0，消息 "success"。
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"msg":  "success",
		"data": data,
	})
}

// SuccessWithStatus 发送一个带有指定 HTTP 状态码的成功响应。
func SuccessWithStatus(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"code": 0,
		"msg":  "success",
		"data": data,
	})
}

// SuccessWithPagination 发送一个包含分页信息的成功响应。
func SuccessWithPagination(c *gin.Context, data any, total int64, page, size int32) {
	c.JSON(http.StatusOK, gin.H{
		"code":  0,
		"msg":   "success",
		"data":  data,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// SuccessWithRawData 发送原始数据的成功响应 (不包装 code 和 msg)。
// 用于某些特定系统接口 (如 Health Check)。
func SuccessWithRawData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error 发送智能错误响应。
// 核心逻辑：自动识别 pkg/xerrors (业务错误) 并执行状态码映射。
// 若无法识别类型，则兜底返回 500 Internal Server Error。
func Error(c *gin.Context, err error) {
	if err == nil {
		Success(c, nil)
		return
	}

	statusCode := http.StatusInternalServerError
	msg := err.Error()

	// 优先尝试从业务错误接口获取状态码
	if e, ok := err.(HTTPStatusProvider); ok {
		statusCode = e.HTTPStatus()
	}

	c.JSON(statusCode, gin.H{
		"code":   statusCode,
		"msg":    msg,
		"detail": "",
	})
}

// ErrorWithStatus 发送一个带有指定 HTTP 状态码、消息和详情的错误响应。
func ErrorWithStatus(c *gin.Context, status int, msg string, detail string) {
	c.JSON(status, gin.H{
		"code":   status,
		"msg":    msg,
		"detail": detail,
	})
}
