// middleware/jwt_middleware.go
package middleware

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"

	"github.com/salestrack/salestrack_backend/models"
)

// TokenLifetime is how long an issued token stays valid. There is no
// server-side revocation: validity is signature plus expiry only.
const TokenLifetime = 24 * time.Hour

// JwtCustomClaims for JWT token
type JwtCustomClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// GetJWTSecret returns the JWT secret from environment variables
func GetJWTSecret() (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET environment variable is required")
	}
	return secret, nil
}

// GenerateJWT signs a token for the given principal id and role.
func GenerateJWT(userID, role string) (string, error) {
	now := time.Now()
	claims := &JwtCustomClaims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(TokenLifetime).Unix(),
			IssuedAt:  now.Unix(),
		},
	}

	secret, err := GetJWTSecret()
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token's signature and expiry and returns its claims.
func ParseToken(tokenString string) (*JwtCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		secret, err := GetJWTSecret()
		if err != nil {
			return nil, err
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// GetClaims returns the token claims attached by Authenticate, or nil.
func GetClaims(c echo.Context) *JwtCustomClaims {
	claims, _ := c.Get("claims").(*JwtCustomClaims)
	return claims
}

// GetPrincipal returns the principal record attached by Authenticate, or nil.
func GetPrincipal(c echo.Context) *models.Principal {
	principal, _ := c.Get("principal").(*models.Principal)
	return principal
}
