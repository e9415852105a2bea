package auth

import "context"

type contextKey string

const (
	tokenKey contextKey = "session_token"
	userKey  contextKey = "session_user"
)

// WithToken кладет токен сессии в контекст запроса
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext возвращает токен сессии, если он есть
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// WithUser кладет имя пользователя сессии в контекст
func WithUser(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, userKey, name)
}

// UserFromContext возвращает имя пользователя или пустую строку
func UserFromContext(ctx context.Context) string {
	name, _ := ctx.Value(userKey).(string)
	return name
}
