package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/internal/domain"
	"github.com/nurlyy/course_ui/internal/service"
	"github.com/nurlyy/course_ui/pkg/config"
)

// AccountHandler обрабатывает вход и выход
type AccountHandler struct {
	BaseHandler
	authService *service.AuthService
	session     *config.SessionConfig
}

// NewAccountHandler создает новый экземпляр AccountHandler
func NewAccountHandler(base BaseHandler, authService *service.AuthService, session *config.SessionConfig) *AccountHandler {
	return &AccountHandler{
		BaseHandler: base,
		authService: authService,
		session:     session,
	}
}

// LoginPage отрисовывает форму входа
func (h *AccountHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, PageLogin, &PageData{
		Title:     "Login",
		Form:      &domain.LoginRequest{},
		ReturnURL: SafeReturnURL(r.URL.Query().Get("returnUrl")),
	})
}

// Login выполняет вход через API и сохраняет токен в cookie
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.RenderError(w, r, err)
		return
	}

	req := &domain.LoginRequest{
		UserName: r.PostFormValue("UserName"),
		Password: r.PostFormValue("Password"),
	}
	returnURL := SafeReturnURL(r.PostFormValue("ReturnUrl"))
	ms := NewModelState()
	page := &PageData{Title: "Login", Form: req, Errors: ms, ReturnURL: returnURL}

	if err := h.ValidateForm(req, ms); err != nil {
		h.RenderError(w, r, err)
		return
	}
	if !ms.IsValid() {
		h.Render(w, r, http.StatusOK, PageLogin, page)
		return
	}

	session, err := h.authService.Login(r.Context(), *req)
	if err != nil {
		var valErr *client.ValidationError
		var reqErr *client.RequestError
		switch {
		case errors.As(err, &valErr):
			ms.AddValidationError(valErr)
		case client.IsUnauthorized(err):
			ms.AddError("", "Invalid user name or password")
		case errors.As(err, &reqErr):
			ms.AddError("", reqErr.Message)
		default:
			h.RenderError(w, r, err)
			return
		}
		h.Render(w, r, http.StatusOK, PageLogin, page)
		return
	}

	expires := time.Now().Add(h.session.CookieTTL)
	if session.Claims != nil && session.Claims.ExpiresAt != nil && session.Claims.ExpiresAt.Time.Before(expires) {
		expires = session.Claims.ExpiresAt.Time
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.Redirect(w, r, returnURL)
}

// Logout удаляет cookie с токеном
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	h.RedirectToLogin(w, r)
}
