package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rentwell/propman/pkg/auth"
	"github.com/rentwell/propman/pkg/domain"
)

func testSessionService() *auth.SessionService {
	return auth.NewSessionService(auth.SessionConfig{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		JWTSecret:       []byte("test-jwt-secret-32-bytes-long!!!"),
		Issuer:          "propman-test",
	}, nil, nil)
}

func TestAuth_MissingToken(t *testing.T) {
	handler := Auth(testSessionService())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached without a token")
	}))

	req := httptest.NewRequest("GET", "/v1/me", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := Auth(testSessionService())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached with a bad token")
	}))

	req := httptest.NewRequest("GET", "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		required   domain.Role
		got        domain.Role
		wantStatus int
	}{
		{"admin passes admin gate", domain.RoleAdmin, domain.RoleAdmin, http.StatusOK},
		{"tenant blocked from admin gate", domain.RoleAdmin, domain.RoleTenant, http.StatusForbidden},
		{"tenant passes tenant gate", domain.RoleTenant, domain.RoleTenant, http.StatusOK},
		{"admin blocked from tenant gate", domain.RoleTenant, domain.RoleAdmin, http.StatusForbidden},
	}

	sessionService := testSessionService()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Build a real token so the whole Auth + RequireRole chain runs.
			token := signTestToken(t, sessionService, tt.got)

			handler := Auth(sessionService)(RequireRole(tt.required)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRole_NoAuthContext(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached without auth context")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// signTestToken builds an access token the way the session service does,
// signed with the same secret.
func signTestToken(t *testing.T, svc *auth.SessionService, role domain.Role) string {
	t.Helper()
	now := time.Now()
	claims := auth.AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			Issuer:    "propman-test",
			ID:        uuid.New().String(),
		},
		Email: "test@example.com",
		Role:  role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-jwt-secret-32-bytes-long!!!"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}
