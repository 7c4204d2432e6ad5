package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/salestrack/salestrack_backend/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims *JwtCustomClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	tests := []struct {
		name   string
		userID string
		role   string
	}{
		{"super admin", "64a000000000000000000001", models.RoleSuperAdmin},
		{"admin", "64a000000000000000000002", models.RoleAdmin},
		{"team lead", "64a000000000000000000003", models.RoleTeamLead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateJWT(tt.userID, tt.role)
			if err != nil {
				t.Fatalf("GenerateJWT() error = %v", err)
			}

			claims, err := ParseToken(token)
			if err != nil {
				t.Fatalf("ParseToken() error = %v", err)
			}
			if claims.UserID != tt.userID {
				t.Errorf("UserID = %q, want %q", claims.UserID, tt.userID)
			}
			if claims.Role != tt.role {
				t.Errorf("Role = %q, want %q", claims.Role, tt.role)
			}

			lifetime := time.Unix(claims.ExpiresAt, 0).Sub(time.Unix(claims.IssuedAt, 0))
			if lifetime != TokenLifetime {
				t.Errorf("token lifetime = %v, want %v", lifetime, TokenLifetime)
			}
		})
	}
}

func TestGenerateJWTNoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := GenerateJWT("64a000000000000000000001", models.RoleAdmin); err == nil {
		t.Error("GenerateJWT() with no secret should fail")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, testSecret, &JwtCustomClaims{
		UserID: "64a000000000000000000001",
		Role:   models.RoleAdmin,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Add(-25 * time.Hour).Unix(),
			ExpiresAt: time.Now().Add(-1 * time.Hour).Unix(),
		},
	})

	if _, err := ParseToken(token); err == nil {
		t.Error("ParseToken() should reject an expired token")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, "other-secret", &JwtCustomClaims{
		UserID: "64a000000000000000000001",
		Role:   models.RoleAdmin,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})

	if _, err := ParseToken(token); err == nil {
		t.Error("ParseToken() should reject a token signed with another secret")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := ParseToken(token); err == nil {
			t.Errorf("ParseToken(%q) should fail", token)
		}
	}
}
