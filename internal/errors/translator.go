package errors

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorTranslator 错误转换器
type ErrorTranslator struct{}

// NewErrorTranslator 创建错误转换器
func NewErrorTranslator() *ErrorTranslator {
	return &ErrorTranslator{}
}

// Translate 将各种类型的错误转换为AppError
func (t *ErrorTranslator) Translate(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return t.translateValidationErrors(validationErrs)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return NewSystemError(ErrCodeInternalServer, "Network error").WithCause(err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewSystemError(ErrCodeInternalServer, "Operation timed out").WithCause(err)
	}

	return NewSystemError(ErrCodeInternalServer, "Internal server error").WithCause(err)
}

// translateValidationErrors 转换字段验证错误
func (t *ErrorTranslator) translateValidationErrors(errs validator.ValidationErrors) *AppError {
	if len(errs) == 0 {
		return NewValidationError("Validation failed")
	}

	first := errs[0]
	field := strings.ToLower(first.Field())
	switch first.Tag() {
	case "required":
		return NewInvalidInputError(field, "field is required")
	case "max":
		return NewInvalidInputError(field, "value exceeds maximum length")
	default:
		return NewInvalidInputError(field, "value is invalid")
	}
}
