package middleware

import (
	"net/http"
	"net/url"

	"github.com/nurlyy/course_ui/pkg/auth"
	"github.com/nurlyy/course_ui/pkg/config"
	"github.com/nurlyy/course_ui/pkg/logger"
)

// SessionValidator проверяет токен из cookie. Реализуется service.AuthService
type SessionValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// AuthMiddleware переносит токен из cookie в контекст запроса
type AuthMiddleware struct {
	validator SessionValidator
	config    *config.SessionConfig
	loginPath string
	logger    logger.Logger
}

// NewAuthMiddleware создает новый экземпляр AuthMiddleware
func NewAuthMiddleware(validator SessionValidator, cfg *config.SessionConfig, loginPath string, logger logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		config:    cfg,
		loginPath: loginPath,
		logger:    logger,
	}
}

// LoadSession кладет токен и имя пользователя в контекст, если cookie есть и токен не истек.
// Истекший токен удаляется из cookie
func (m *AuthMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.config.CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.validator.Validate(cookie.Value)
		if err != nil {
			m.logger.Info("Dropping invalid session cookie", map[string]interface{}{
				"error": err.Error(),
				"path":  r.URL.Path,
			})
			http.SetCookie(w, &http.Cookie{
				Name:     m.config.CookieName,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
				Secure:   m.config.SecureCookie,
			})
			next.ServeHTTP(w, r)
			return
		}

		ctx := auth.WithToken(r.Context(), cookie.Value)
		if claims != nil {
			ctx = auth.WithUser(ctx, claims.DisplayName())
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSession уводит на страницу входа, если в контексте нет токена
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.TokenFromContext(r.Context()); !ok {
			target := m.loginPath + "?returnUrl=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
