package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
)

func signedToken(t *testing.T, secret string, claims models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("secret")
	raw := signedToken(t, "secret", models.JWTClaims{
		UserID: "u-1",
		Role:   models.RoleScheduler,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleScheduler, claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewAuthService("secret")
	raw := signedToken(t, "other", models.JWTClaims{UserID: "u-1"})

	_, err := svc.ValidateToken(raw)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewAuthService("secret")
	raw := signedToken(t, "secret", models.JWTClaims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := svc.ValidateToken(raw)
	require.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewAuthService("secret")
	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
