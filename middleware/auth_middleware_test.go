package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"

	"github.com/salestrack/salestrack_backend/models"
)

func newTestContext(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/sales", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var resp models.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

// All cases below fail before the principal lookup, so Authenticate
// never touches the database.
func TestAuthenticateRejections(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	validRoleBadID := signToken(t, testSecret, &JwtCustomClaims{
		UserID: "not-an-object-id",
		Role:   models.RoleAdmin,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})
	unknownRole := signToken(t, testSecret, &JwtCustomClaims{
		UserID: "64a000000000000000000001",
		Role:   "manager",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})
	expired := signToken(t, testSecret, &JwtCustomClaims{
		UserID: "64a000000000000000000001",
		Role:   models.RoleAdmin,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	})

	tests := []struct {
		name        string
		authHeader  string
		wantStatus  int
		wantMessage string
	}{
		{"missing header", "", http.StatusUnauthorized, "Access token required"},
		{"not bearer", "Basic abc123", http.StatusUnauthorized, "Access token required"},
		{"malformed token", "Bearer garbage", http.StatusForbidden, "Invalid token"},
		{"expired token", "Bearer " + expired, http.StatusForbidden, "Invalid token"},
		{"unknown role", "Bearer " + unknownRole, http.StatusForbidden, "Invalid role"},
		{"bad subject id", "Bearer " + validRoleBadID, http.StatusForbidden, "Invalid token"},
	}

	handler := Authenticate(nil)(func(c echo.Context) error {
		t.Error("next handler should not run")
		return nil
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t, tt.authHeader)
			if err := handler(c); err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if resp := decodeResponse(t, rec); resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		claims     *JwtCustomClaims
		allowed    []string
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "no identity",
			claims:     nil,
			allowed:    []string{models.RoleAdmin},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "role not allowed",
			claims:     &JwtCustomClaims{Role: models.RoleTeamLead},
			allowed:    []string{models.RoleAdmin, models.RoleSuperAdmin},
			wantStatus: http.StatusForbidden,
		},
		{
			name:     "role allowed",
			claims:   &JwtCustomClaims{Role: models.RoleAdmin},
			allowed:  []string{models.RoleAdmin, models.RoleSuperAdmin},
			wantNext: true,
		},
		{
			name:     "empty list admits any authenticated role",
			claims:   &JwtCustomClaims{Role: models.RoleTeamLead},
			allowed:  nil,
			wantNext: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t, "")
			if tt.claims != nil {
				c.Set("claims", tt.claims)
			}

			nextCalled := false
			handler := RequireRole(tt.allowed...)(func(c echo.Context) error {
				nextCalled = true
				return c.NoContent(http.StatusOK)
			})

			if err := handler(c); err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if nextCalled != tt.wantNext {
				t.Errorf("next called = %v, want %v", nextCalled, tt.wantNext)
			}
			if !tt.wantNext && rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
