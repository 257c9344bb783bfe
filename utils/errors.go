package utils

import (
	"errors"
	"net/http"
)

// APIError 可直接返回给调用方的错误，Message 不包含内部细节
type APIError struct {
	Status  int
	Message string
	Err     error // 内部原因，只写日志
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

func NewValidationError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

func NewAuthError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

func NewNotFoundError(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message}
}

func NewInternalError(err error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

// AsAPIError 将任意错误转换为 APIError，未知错误视为 500
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternalError(err)
}
