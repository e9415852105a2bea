package handlers

import (
	"strings"

	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/pkg/validator"
)

// ModelState собирает ошибки формы: по полям и общие.
// Ключи полей сравниваются без учета регистра, как их присылает API
type ModelState struct {
	fields  map[string][]string
	Summary []string
}

// NewModelState создает пустой ModelState
func NewModelState() *ModelState {
	return &ModelState{fields: make(map[string][]string)}
}

// AddError добавляет ошибку. Пустой ключ означает общую ошибку формы
func (m *ModelState) AddError(key, message string) {
	if key == "" {
		m.Summary = append(m.Summary, message)
		return
	}
	key = strings.ToLower(key)
	m.fields[key] = append(m.fields[key], message)
}

// AddValidationError переносит ошибки полей из ответа API
func (m *ModelState) AddValidationError(err *client.ValidationError) {
	for _, item := range err.Errors {
		m.AddError(item.Key, item.Message)
	}
	if len(err.Errors) == 0 {
		m.AddError("", err.Message)
	}
}

// AddValidatorErrors переносит ошибки локальной проверки формы
func (m *ModelState) AddValidatorErrors(errs validator.ValidationErrors) {
	for _, item := range errs.Errors {
		m.AddError(item.Field, item.Message)
	}
}

// FieldError возвращает ошибки поля одной строкой
func (m *ModelState) FieldError(key string) string {
	if m == nil {
		return ""
	}
	return strings.Join(m.fields[strings.ToLower(key)], " ")
}

// FieldErrors возвращает ошибки поля
func (m *ModelState) FieldErrors(key string) []string {
	if m == nil {
		return nil
	}
	return m.fields[strings.ToLower(key)]
}

// IsValid сообщает, что ошибок нет
func (m *ModelState) IsValid() bool {
	return m == nil || (len(m.fields) == 0 && len(m.Summary) == 0)
}
