package auth

import (
	"errors"
	"time"

	"cuponera_backend/internal/config"
	"cuponera_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID     string          `json:"user_id"`
	Role       models.UserRole `json:"role"`
	BusinessID string          `json:"business_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed JWT for the operator account.
func GenerateToken(user *models.User) (string, error) {
	cfg := config.AppConfig
	if cfg == nil || cfg.JWT.Secret == "" {
		return "", errors.New("jwt secret is not configured")
	}

	businessID := ""
	if user.BusinessID != nil {
		businessID = *user.BusinessID
	}

	claims := Claims{
		UserID:     user.ID,
		Role:       user.Role,
		BusinessID: businessID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.JWT.TTL) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ParseToken validates the token signature and expiry and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.AppConfig
	if cfg == nil || cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
