package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/nurlyy/course_ui/pkg/config"
)

func signToken(t *testing.T, secret string, name string, exp time.Time) string {
	t.Helper()
	claims := &Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			Subject:   "42",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestInspect_Unverified(t *testing.T) {
	inspector := NewTokenInspector(&config.SessionConfig{})

	token := signToken(t, "backend-secret", "admin", time.Now().Add(time.Hour))
	claims, err := inspector.Inspect(token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.DisplayName())

	expired := signToken(t, "backend-secret", "admin", time.Now().Add(-time.Minute))
	_, err = inspector.Inspect(expired)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestInspect_VerifiedSignature(t *testing.T) {
	inspector := NewTokenInspector(&config.SessionConfig{JWTSecret: "shared"})

	claims, err := inspector.Inspect(signToken(t, "shared", "", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	require.Equal(t, "42", claims.DisplayName())

	_, err = inspector.Inspect(signToken(t, "other", "admin", time.Now().Add(time.Hour)))
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = inspector.Inspect(signToken(t, "shared", "admin", time.Now().Add(-time.Hour)))
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestInspect_Garbage(t *testing.T) {
	inspector := NewTokenInspector(&config.SessionConfig{})

	_, err := inspector.Inspect("not-a-jwt")
	require.True(t, errors.Is(err, ErrInvalidToken))

	_, err = inspector.Inspect("")
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenContext(t *testing.T) {
	_, ok := TokenFromContext(context.Background())
	require.False(t, ok)

	ctx := WithToken(context.Background(), "abc")
	token, ok := TokenFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "abc", token)

	_, ok = TokenFromContext(WithToken(context.Background(), ""))
	require.False(t, ok)
}

func TestUserContext(t *testing.T) {
	require.Empty(t, UserFromContext(context.Background()))
	require.Equal(t, "admin", UserFromContext(WithUser(context.Background(), "admin")))
}
