package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/internal/domain"
	"github.com/nurlyy/course_ui/pkg/validator"
)

func TestModelState(t *testing.T) {
	ms := NewModelState()
	assert.True(t, ms.IsValid())

	ms.AddValidationError(&client.ValidationError{
		Message: "invalid",
		Errors: []domain.ErrorItem{
			{Key: "fullName", Message: "required"},
			{Key: "FullName", Message: "too short"},
		},
	})
	ms.AddValidatorErrors(validator.ValidationErrors{Errors: []validator.ValidationError{
		{Field: "Point", Message: "Must be at most 100"},
	}})

	assert.False(t, ms.IsValid())
	assert.Equal(t, []string{"required", "too short"}, ms.FieldErrors("FULLNAME"))
	assert.Equal(t, "required too short", ms.FieldError("fullname"))
	assert.Equal(t, "Must be at most 100", ms.FieldError("point"))
	assert.Empty(t, ms.Summary)
}

func TestModelStateSummaryOnlyValidation(t *testing.T) {
	ms := NewModelState()
	ms.AddValidationError(&client.ValidationError{Message: "Group is full"})
	assert.Equal(t, []string{"Group is full"}, ms.Summary)
}

func TestModelStateNil(t *testing.T) {
	var ms *ModelState
	assert.True(t, ms.IsValid())
	assert.Empty(t, ms.FieldError("Name"))
	assert.Nil(t, ms.FieldErrors("Name"))
}

func TestSafeReturnURL(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/student?page=2":      "/student?page=2",
		"https://evil.example": "/",
		"//evil.example/path":  "/",
		"/\\evil.example":      "/",
		"group":                "/",
		"/group/edit/3":        "/group/edit/3",
		"javascript:alert(1)":  "/",
	}

	for raw, want := range tests {
		assert.Equal(t, want, SafeReturnURL(raw), raw)
	}
}
