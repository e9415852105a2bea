package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator - структура для валидации данных форм
type CustomValidator struct {
	validator *validator.Validate
}

// ValidationError представляет ошибку валидации поля
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors содержит список ошибок валидации
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error реализует интерфейс error
func (ve ValidationErrors) Error() string {
	var errMsgs []string
	for _, err := range ve.Errors {
		errMsgs = append(errMsgs, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(errMsgs, "; ")
}

// NewValidator создает новый экземпляр валидатора
func NewValidator() *CustomValidator {
	v := validator.New()

	// Ключ ошибки совпадает с именем поля формы, чтобы ошибка попала к нужному input
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &CustomValidator{
		validator: v,
	}
}

// Validate проверяет структуру на соответствие правилам валидации
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var validationErrors ValidationErrors
	for _, fe := range fieldErrs {
		validationErrors.Errors = append(validationErrors.Errors, ValidationError{
			Field:   fe.Field(),
			Message: getErrorMessage(fe),
		})
	}
	return validationErrors
}

// getErrorMessage возвращает понятное сообщение об ошибке на основе тега валидации
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min", "gte":
		if err.Type().Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters long", err.Param())
		}
		return fmt.Sprintf("Must be at least %s", err.Param())
	case "max", "lte":
		if err.Type().Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters long", err.Param())
		}
		return fmt.Sprintf("Must be at most %s", err.Param())
	default:
		return fmt.Sprintf("Failed validation for '%s'", err.Tag())
	}
}
