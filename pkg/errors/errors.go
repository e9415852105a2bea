package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Типы ошибок
var (
	ErrInternalServer     = errors.New("internal server error")
	ErrNotFound           = errors.New("resource not found")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// AppError представляет ошибку уровня страницы: код ответа и текст для пользователя
type AppError struct {
	Err        error
	StatusCode int
	Message    string
	Code       string
}

// Error реализует интерфейс error
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap возвращает оборачиваемую ошибку
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError создает новую ошибку приложения
func NewAppError(err error, statusCode int, message, code string) *AppError {
	return &AppError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// statusCoder реализуют ошибки, несущие HTTP-статус внешнего сервиса
type statusCoder interface {
	HTTPStatus() int
}

// FromError создает AppError из обычной ошибки
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		status := sc.HTTPStatus()
		return NewAppError(err, status, http.StatusText(status), codeForStatus(status))
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(err, http.StatusNotFound, "Resource not found", "not_found")
	case errors.Is(err, ErrBadRequest):
		return NewAppError(err, http.StatusBadRequest, "Bad request", "bad_request")
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(err, http.StatusUnauthorized, "Unauthorized", "unauthorized")
	case errors.Is(err, ErrForbidden):
		return NewAppError(err, http.StatusForbidden, "Forbidden", "forbidden")
	case errors.Is(err, ErrServiceUnavailable):
		return NewAppError(err, http.StatusServiceUnavailable, "Service unavailable", "service_unavailable")
	default:
		return NewAppError(err, http.StatusInternalServerError, "Internal server error", "internal_error")
	}
}

// Error оборачивает ошибку с пояснением
func Error(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// BadRequest создает ошибку 400 Bad Request
func BadRequest(message string) *AppError {
	return NewAppError(ErrBadRequest, http.StatusBadRequest, message, "bad_request")
}

// NotFound создает ошибку 404 Not Found
func NotFound(entity string, id interface{}) *AppError {
	msg := fmt.Sprintf("%s with ID %v not found", entity, id)
	return NewAppError(ErrNotFound, http.StatusNotFound, msg, "not_found")
}

// InternalServer создает ошибку 500 Internal Server Error
func InternalServer(err error) *AppError {
	return NewAppError(err, http.StatusInternalServerError, "Internal server error", "internal_error")
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	}
	if status >= 500 {
		return "upstream_error"
	}
	return "request_failed"
}
