package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/pkg/auth"
	apperrors "github.com/nurlyy/course_ui/pkg/errors"
	"github.com/nurlyy/course_ui/pkg/logger"
	"github.com/nurlyy/course_ui/pkg/validator"
)

// Адреса страниц, на которые уводят редиректы
const (
	LoginPath = "/account/login"
	ErrorPath = "/home/error"
)

// BaseHandler содержит общие методы для всех обработчиков
type BaseHandler struct {
	Logger        logger.Logger
	Validator     *validator.CustomValidator
	Views         *Views
	MaxUploadSize int64
}

// NewBaseHandler создает новый экземпляр BaseHandler
func NewBaseHandler(log logger.Logger, v *validator.CustomValidator, views *Views, maxUploadSize int64) BaseHandler {
	return BaseHandler{
		Logger:        log,
		Validator:     v,
		Views:         views,
		MaxUploadSize: maxUploadSize,
	}
}

// Render отрисовывает страницу с указанным кодом статуса
func (h *BaseHandler) Render(w http.ResponseWriter, r *http.Request, status int, page string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}
	if data.Errors == nil {
		data.Errors = NewModelState()
	}
	data.User = auth.UserFromContext(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.Views.Render(w, page, data); err != nil {
		h.Logger.Error("Failed to render page", err, map[string]interface{}{"page": page})
	}
}

// RenderError отрисовывает страницу ошибки с кодом, соответствующим ошибке
func (h *BaseHandler) RenderError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.FromError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("Request failed", err, map[string]interface{}{
			"path": r.URL.Path,
			"code": appErr.Code,
		})
	}

	h.Render(w, r, appErr.StatusCode, PageError, &PageData{
		Title:   "Error",
		Status:  appErr.StatusCode,
		Message: appErr.Message,
	})
}

// Redirect выполняет редирект 302
func (h *BaseHandler) Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}

// RedirectToPage уводит на страницу списка с номером страницы
func (h *BaseHandler) RedirectToPage(w http.ResponseWriter, r *http.Request, listPath string, page int) {
	h.Redirect(w, r, listPath+"?page="+strconv.Itoa(page))
}

// HandleFetchError обрабатывает ошибку чтения данных для страницы:
// 401 уводит на вход, любая другая ошибка на страницу ошибки
func (h *BaseHandler) HandleFetchError(w http.ResponseWriter, r *http.Request, err error) {
	if client.IsUnauthorized(err) {
		h.RedirectToLogin(w, r)
		return
	}

	h.Logger.Warn("Failed to load page data", map[string]interface{}{
		"path":  r.URL.Path,
		"error": err.Error(),
	})
	h.Redirect(w, r, ErrorPath)
}

// RedirectToLogin уводит на страницу входа
func (h *BaseHandler) RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	h.Redirect(w, r, LoginPath)
}

// RespondStatus отвечает кодом статуса на удаление
func (h *BaseHandler) RespondStatus(w http.ResponseWriter, r *http.Request, status int) {
	render.Status(r, status)
	render.JSON(w, r, map[string]interface{}{
		"status": status,
		"text":   http.StatusText(status),
	})
}

// RespondDeleteError передает код ответа API вызывающей стороне
func (h *BaseHandler) RespondDeleteError(w http.ResponseWriter, r *http.Request, err error) {
	status, ok := client.StatusOf(err)
	if !ok {
		h.Logger.Error("Delete failed", err, map[string]interface{}{"path": r.URL.Path})
		status = apperrors.FromError(err).StatusCode
	}
	h.RespondStatus(w, r, status)
}

// ValidateForm проверяет форму и переносит ошибки в ModelState
func (h *BaseHandler) ValidateForm(form interface{}, ms *ModelState) error {
	err := h.Validator.Validate(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		ms.AddValidatorErrors(verrs)
		return nil
	}
	return err
}

// GetPage извлекает номер страницы из запроса
func (h *BaseHandler) GetPage(r *http.Request) int {
	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		if parsed, err := strconv.Atoi(pageParam); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 1
}

// GetIDParam извлекает числовой идентификатор из URL
func (h *BaseHandler) GetIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest(fmt.Sprintf("invalid id %q", chi.URLParam(r, "id")))
	}
	return id, nil
}

// SafeReturnURL оставляет только локальный путь для редиректа после входа
func SafeReturnURL(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return raw
}
