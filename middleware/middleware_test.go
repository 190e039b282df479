package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"chalethaven/utils"

	"github.com/gin-gonic/gin"
)

type stubAuth struct {
	tokens map[string]*utils.Claims
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*utils.Claims, error) {
	if c, ok := s.tokens[token]; ok {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

func buildTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := stubAuth{tokens: map[string]*utils.Claims{
		"admin-token": {Subject: "u1", Role: "admin"},
		"user-token":  {Subject: "u2", Role: "user"},
	}}

	r := gin.New()
	r.GET("/public", JWTAuthMiddleware(auth, true), func(c *gin.Context) {
		c.String(http.StatusOK, Role(c))
	})
	admin := r.Group("/admin", JWTAuthMiddleware(auth, false), RequireRoles("admin", "super-admin"))
	admin.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})
	return r
}

func TestAdminRBAC(t *testing.T) {
	r := buildTestRouter()
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"not bearer", "Basic admin-token", http.StatusUnauthorized},
		{"user role", "Bearer user-token", http.StatusForbidden},
		{"admin role", "Bearer admin-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	r := buildTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	if w.Code != http.StatusOK || w.Body.String() != "" {
		t.Fatalf("anonymous: %d %q", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "admin" {
		t.Fatalf("role = %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token on optional route: %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("other client limited: %d", w.Code)
	}
}
