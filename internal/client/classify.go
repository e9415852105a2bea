package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/nurlyy/course_ui/internal/domain"
)

var errEmptyBody = errors.New("empty response body")

// problemDetails - ответ ASP.NET на ошибку привязки модели
type problemDetails struct {
	Title  string              `json:"title"`
	Errors map[string][]string `json:"errors"`
}

// decodeResponse превращает статус и тело ответа в значение out или типизированную ошибку.
// out == nil означает, что тело успешного ответа не нужно.
func decodeResponse(status int, body []byte, out interface{}) error {
	if status >= 200 && status < 300 {
		if out == nil {
			return nil
		}
		body = bytes.TrimSpace(body)
		if len(body) == 0 {
			return errEmptyBody
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
		return nil
	}
	return classifyError(status, body)
}

// classifyError разбирает тело ошибки. Тело, которое не удалось разобрать,
// становится текстом RequestError
func classifyError(status int, body []byte) error {
	body = bytes.TrimSpace(body)

	errResp, decoded := decodeErrorBody(body)
	if status == http.StatusBadRequest && decoded {
		return &ValidationError{
			Message: errResp.Message,
			Errors:  errResp.Errors,
		}
	}

	message := string(body)
	if decoded {
		message = errResp.Message
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &RequestError{
		StatusCode: status,
		Message:    message,
	}
}

func decodeErrorBody(body []byte) (*domain.ErrorResponse, bool) {
	if len(body) == 0 || body[0] != '{' {
		return nil, false
	}

	var errResp domain.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		return &errResp, true
	}

	var problem problemDetails
	if err := json.Unmarshal(body, &problem); err != nil {
		return nil, false
	}

	keys := make([]string, 0, len(problem.Errors))
	for key := range problem.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	errResp = domain.ErrorResponse{Message: problem.Title}
	for _, key := range keys {
		for _, msg := range problem.Errors[key] {
			errResp.Errors = append(errResp.Errors, domain.ErrorItem{Key: key, Message: msg})
		}
	}
	return &errResp, true
}
