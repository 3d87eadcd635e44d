package response

import (
	"net/http"

	"healthcare_booking/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`         // 请求是否成功
	Message string      `json:"message"`         // 提示信息
	Data    interface{} `json:"data,omitempty"`  // 数据
	Error   interface{} `json:"error,omitempty"` // 错误详情 (可选)
}

// Success 成功响应
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created 资源创建成功响应
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
// 识别 apperr 类型错误并映射到对应的 HTTP 状态码，未知错误统一按 500 处理
func Error(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(appErr.Status(), Response{
		Success: false,
		Message: appErr.Message,
		Error:   appErr.Detail,
	})
}

// Fail 业务失败响应 (显式指定 HTTP 状态码)
func Fail(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, Response{
		Success: false,
		Message: message,
	})
}
