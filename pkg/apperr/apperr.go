package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别，封闭集合，在 HTTP 边界统一映射为状态码
type Kind int

const (
	KindInternal   Kind = iota // 500 未预期错误
	KindValidation             // 400 参数或业务校验失败
	KindNotFound               // 404 资源不存在
	KindConflict               // 409 并发状态冲突 / 重复创建
	KindAuth                   // 401 未认证
	KindForbidden              // 403 权限不足
)

// Error 带类别和提示信息的业务错误
type Error struct {
	Kind    Kind        // 错误类别
	Message string      // 面向调用方的提示信息
	Detail  interface{} `json:"detail,omitempty"` // 可选的结构化错误详情
	cause   error       // 底层错误，仅日志使用
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Status 返回对应的 HTTP 状态码
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Validation 400 校验错误
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound 404 资源不存在
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict 409 状态冲突
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Auth 401 认证失败
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Forbidden 403 权限不足
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Internal 500 内部错误，携带底层原因
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// WithDetail 附加结构化错误详情
func (e *Error) WithDetail(detail interface{}) *Error {
	e.Detail = detail
	return e
}

// From 将任意错误转换为 *Error，未识别的错误包装为 Internal
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindInternal, Message: "internal server error", cause: err}
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
