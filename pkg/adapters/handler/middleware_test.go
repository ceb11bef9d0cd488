package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/session"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
)

func TestAuthMiddleware(t *testing.T) {
	const secret = "testsecret"
	mw := NewMiddleware(session.NewManager(secret, false))

	tests := []struct {
		name           string
		cookieName     string
		cookieValue    string
		expectedStatus int
	}{
		{
			name:           "No Cookie",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Cookie",
			cookieName:     session.CookieName,
			cookieValue:    "invalid",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Password As Cookie",
			cookieName:     session.CookieName,
			cookieValue:    secret,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Role",
			cookieName:     session.CookieName,
			cookieValue:    generateTestToken(t, secret, "viewer"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Valid Cookie",
			cookieName:     session.CookieName,
			cookieValue:    generateTestToken(t, secret, domain.RoleAdmin),
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin/jobs", nil)
			if tt.cookieName != "" {
				req.AddCookie(&http.Cookie{Name: tt.cookieName, Value: tt.cookieValue})
			}

			rr := httptest.NewRecorder()
			handler := mw.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if p := PrincipalFrom(r.Context()); p == nil || p.Subject != "test@example.com" {
					t.Errorf("principal not attached: %+v", p)
				}
				w.WriteHeader(http.StatusOK)
			}))

			handler.ServeHTTP(rr, req)

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tt.expectedStatus)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", nil))
	if seen == "" || rr.Header().Get("X-Request-ID") != seen {
		t.Errorf("expected generated request id, got %q / %q", seen, rr.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-123" {
		t.Errorf("expected caller request id, got %q", seen)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		forwarded string
		remote    string
		want      string
	}{
		{"", "10.0.0.1:5555", "10.0.0.1"},
		{"203.0.113.7, 10.0.0.1", "10.0.0.1:5555", "203.0.113.7"},
		{" 198.51.100.2 ", "10.0.0.1:5555", "198.51.100.2"},
		{"", "pipe", "pipe"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/jobs", nil)
		req.RemoteAddr = tt.remote
		if tt.forwarded != "" {
			req.Header.Set("X-Forwarded-For", tt.forwarded)
		}
		if got := clientIP(req); got != tt.want {
			t.Errorf("clientIP(%q, %q) = %q, want %q", tt.forwarded, tt.remote, got, tt.want)
		}
	}
}

func generateTestToken(t *testing.T, secret, role string) string {
	expirationTime := time.Now().Add(5 * time.Minute)
	claims := &session.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "test@example.com",
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return tokenString
}
