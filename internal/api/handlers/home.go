package handlers

import "net/http"

// HomeHandler обрабатывает главную страницу и страницу ошибки
type HomeHandler struct {
	BaseHandler
}

// NewHomeHandler создает новый экземпляр HomeHandler
func NewHomeHandler(base BaseHandler) *HomeHandler {
	return &HomeHandler{BaseHandler: base}
}

// Index отрисовывает главную страницу
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, PageHome, &PageData{Title: "Home"})
}

// Error отрисовывает общую страницу ошибки
func (h *HomeHandler) Error(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, PageError, &PageData{Title: "Error"})
}

// NotFound отрисовывает страницу 404
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusNotFound, PageError, &PageData{
		Title:   "Not found",
		Status:  http.StatusNotFound,
		Message: "The page you are looking for does not exist.",
	})
}

// Panic отрисовывает страницу ошибки после паники в обработчике
func (h *HomeHandler) Panic(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusInternalServerError, PageError, &PageData{
		Title:  "Error",
		Status: http.StatusInternalServerError,
	})
}
