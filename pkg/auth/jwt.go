package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nurlyy/course_ui/pkg/config"
)

// Стандартные ошибки
var (
	ErrInvalidToken  = errors.New("token is invalid")
	ErrExpiredToken  = errors.New("token has expired")
	ErrTokenNotFound = errors.New("token not found")
)

// NameClaim - ключ, под которым ASP.NET кладет имя пользователя
const NameClaim = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"

// Claims содержит данные пользователя из токена внешнего API
type Claims struct {
	Name string `json:"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name,omitempty"`
	jwt.RegisteredClaims
}

// DisplayName возвращает имя для шапки страницы
func (c *Claims) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Subject
}

// TokenInspector проверяет токен, выданный внешним API.
// Токен остается непрозрачным для API-вызовов, здесь читается только срок действия.
type TokenInspector struct {
	secret []byte
	now    func() time.Time
}

// NewTokenInspector создает инспектор токенов
func NewTokenInspector(cfg *config.SessionConfig) *TokenInspector {
	return &TokenInspector{
		secret: []byte(cfg.JWTSecret),
		now:    time.Now,
	}
}

// Verifies сообщает, проверяется ли подпись токена
func (i *TokenInspector) Verifies() bool {
	return len(i.secret) > 0
}

// Inspect разбирает токен и проверяет срок действия.
// Если секрет не задан, подпись не проверяется: ее проверит сам API.
func (i *TokenInspector) Inspect(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenNotFound
	}

	claims := &Claims{}
	if len(i.secret) > 0 {
		_, err := jwt.ParseWithClaims(
			tokenString,
			claims,
			func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return i.secret, nil
			},
			jwt.WithTimeFunc(i.now),
		)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet) {
				return nil, ErrExpiredToken
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return claims, nil
	}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt != nil && !i.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrExpiredToken
	}
	return claims, nil
}
