package response

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/hadmin/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data,omitempty"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

// 响应码定义
const (
	CodeSuccess = 0
	CodeError   = 1
)

// 响应消息定义
const (
	MsgSuccess = "success"
)

// Success 成功响应
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(http.StatusOK).JSON(Response{
		Code:    CodeSuccess,
		Message: MsgSuccess,
		Data:    data,
	})
}

// SuccessPage 分页成功响应
func SuccessPage(c *fiber.Ctx, data interface{}, total int64, page, pageSize int) error {
	return c.Status(http.StatusOK).JSON(PageResponse{
		Code:     CodeSuccess,
		Message:  MsgSuccess,
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Error 错误响应，业务码与HTTP状态码保持一致
func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(httpStatus(code)).JSON(Response{
		Code:    code,
		Message: message,
	})
}

// FromError 根据错误分类生成响应
func FromError(c *fiber.Ctx, err error) error {
	return Error(c, errors.GetCode(err), errors.GetMessage(err))
}

// BadRequest 请求错误
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, errors.CodeBusiness, message)
}

// Unauthorized 未授权
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "未授权"
	}
	return Error(c, errors.CodeAuthentication, message)
}

// NotFound 未找到
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "资源不存在"
	}
	return Error(c, errors.CodeNotFound, message)
}

// ValidateError 验证错误
func ValidateError(c *fiber.Ctx, message string) error {
	return Error(c, errors.CodeValidation, message)
}

// ServerError 服务器错误
func ServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "服务器内部错误"
	}
	return Error(c, errors.CodeInternal, message)
}

// httpStatus 业务码映射HTTP状态码
func httpStatus(code int) int {
	switch code {
	case errors.CodeBusiness, CodeError:
		return http.StatusBadRequest
	case errors.CodeAuthentication:
		return http.StatusUnauthorized
	case errors.CodeForbidden:
		return http.StatusForbidden
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeDuplicate:
		return http.StatusConflict
	case errors.CodeValidation:
		return http.StatusUnprocessableEntity
	case errors.CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case errors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
