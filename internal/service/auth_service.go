package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/internal/domain"
	"github.com/nurlyy/course_ui/pkg/auth"
	"github.com/nurlyy/course_ui/pkg/logger"
)

// Session - токен и данные пользователя из него
type Session struct {
	Token  string
	Claims *auth.Claims
}

// AuthService выполняет вход через API и проверяет токены сессий
type AuthService struct {
	client    *client.Client
	inspector *auth.TokenInspector
	inspect   bool
	logger    logger.Logger
}

// NewAuthService создает новый экземпляр AuthService. inspector == nil отключает проверку токенов
func NewAuthService(c *client.Client, inspector *auth.TokenInspector, log logger.Logger) *AuthService {
	return &AuthService{
		client:    c,
		inspector: inspector,
		inspect:   inspector != nil,
		logger:    log.With("service", "auth"),
	}
}

// Login обменивает учетные данные на сессию
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*Session, error) {
	token, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", map[string]interface{}{"user": req.UserName})

	session := &Session{Token: token}
	if !s.inspect {
		return session, nil
	}

	claims, err := s.inspector.Inspect(token)
	switch {
	case err == nil:
		session.Claims = claims
	case errors.Is(err, auth.ErrExpiredToken):
		return nil, fmt.Errorf("backend issued an expired token: %w", err)
	default:
		// Непрозрачный токен: API проверит его сам
		s.logger.Debug("Issued token is not an inspectable JWT", map[string]interface{}{"error": err.Error()})
	}
	return session, nil
}

// Validate проверяет токен из cookie. Ошибку возвращает только для истекшего или подделанного токена
func (s *AuthService) Validate(token string) (*auth.Claims, error) {
	if !s.inspect {
		return nil, nil
	}

	claims, err := s.inspector.Inspect(token)
	if err == nil {
		return claims, nil
	}
	if errors.Is(err, auth.ErrExpiredToken) || s.inspector.Verifies() {
		return nil, err
	}
	return nil, nil
}
