package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nurlyy/course_ui/internal/domain"
)

// ValidationError возвращается на ответ 400 со списком ошибок полей
type ValidationError struct {
	Message string
	Errors  []domain.ErrorItem
}

// Error реализует интерфейс error
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", item.Key, item.Message))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// HTTPStatus возвращает код ответа API
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// RequestError возвращается на любой другой неуспешный ответ API
type RequestError struct {
	StatusCode int
	Message    string
}

// Error реализует интерфейс error
func (e *RequestError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Message)
}

// HTTPStatus возвращает код ответа API
func (e *RequestError) HTTPStatus() int {
	return e.StatusCode
}

// IsUnauthorized сообщает, что API отклонил токен
func IsUnauthorized(err error) bool {
	status, ok := StatusOf(err)
	return ok && status == http.StatusUnauthorized
}

// StatusOf возвращает код ответа API, если ошибка пришла от него
func StatusOf(err error) (int, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode, true
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, true
	}
	return 0, false
}
