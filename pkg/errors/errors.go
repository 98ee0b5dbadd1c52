package errors

import (
	"errors"
	"fmt"
)

// 错误分类对应的HTTP状态码
const (
	CodeBusiness         = 400
	CodeAuthentication   = 401
	CodeForbidden        = 403
	CodeNotFound         = 404
	CodeDuplicate        = 409
	CodeValidation       = 422
	CodeInternal         = 500
	CodeStoreUnavailable = 503
)

// 预定义错误
var (
	ErrNotFound          = New(CodeNotFound, "资源不存在")
	ErrUnauthorized      = New(CodeAuthentication, "未授权")
	ErrForbidden         = New(CodeForbidden, "禁止访问")
	ErrInternalServer    = New(CodeInternal, "服务器内部错误")
	ErrInvalidCredential = New(CodeAuthentication, "邮箱或密码错误")
	ErrAccountDisabled   = New(CodeAuthentication, "账号已被禁用")
	ErrTokenInvalid      = New(CodeAuthentication, "无效的认证凭据")
	ErrStoreUnavailable  = New(CodeStoreUnavailable, "令牌服务暂时不可用")
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 解包错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同码同消息视为同一错误，支持 errors.Is 比较预定义错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New 创建新错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is 检查是否为指定错误
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As 类型转换错误
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode 获取错误码
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// GetMessage 获取错误消息，非应用错误一律返回通用消息，避免泄露内部细节
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "服务器内部错误"
}

// Authentication 创建认证错误
func Authentication(message string) *AppError {
	if message == "" {
		message = "认证失败"
	}
	return New(CodeAuthentication, message)
}

// Validation 创建验证错误
func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// NotFound 创建未找到错误
func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s不存在", resource))
}

// Business 创建业务错误(数据不一致等内部业务规则冲突)
func Business(message string) *AppError {
	return New(CodeBusiness, message)
}

// Duplicate 创建重复错误
func Duplicate(field string) *AppError {
	return New(CodeDuplicate, fmt.Sprintf("%s已存在", field))
}

// Internal 创建内部错误
func Internal(message string) *AppError {
	if message == "" {
		message = "服务器内部错误"
	}
	return New(CodeInternal, message)
}

// StoreUnavailable 包装缓存存储不可用错误
func StoreUnavailable(err error) *AppError {
	return Wrap(err, CodeStoreUnavailable, "令牌服务暂时不可用")
}

// IsAuthentication 是否为认证错误
func IsAuthentication(err error) bool {
	return GetCode(err) == CodeAuthentication
}

// IsNotFound 是否为未找到错误
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsStoreUnavailable 是否为存储不可用错误
func IsStoreUnavailable(err error) bool {
	return GetCode(err) == CodeStoreUnavailable
}
