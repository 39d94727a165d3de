package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
)

// AuthService validates access tokens issued by the identity service.
// Token issuance lives elsewhere; this API only verifies and decodes.
type AuthService struct {
	secret string
}

// NewAuthService instantiates AuthService.
func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: secret}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}
