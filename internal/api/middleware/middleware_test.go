package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/chirper/internal/service"
)

type stubAuth map[string]string

func (s stubAuth) Authenticate(_ context.Context, tok string) (string, error) {
	if tok == "broken" {
		return "", errors.New("db down")
	}
	if id, ok := s[tok]; ok {
		return id, nil
	}
	return "", fmt.Errorf("parse token: %w", service.ErrUnauthenticated)
}

func init() { gin.SetMode(gin.TestMode) }

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, Viewer(c)) })
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalViewer(t *testing.T) {
	r := newEngine(OptionalViewer(stubAuth{"good": "alice"}))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "anonymous", status: http.StatusOK, body: ""},
		{name: "bearer", header: "Bearer good", status: http.StatusOK, body: "alice"},
		{name: "case insensitive scheme", header: "bearer good", status: http.StatusOK, body: "alice"},
		{name: "other scheme ignored", header: "Basic Zm9v", status: http.StatusOK, body: ""},
		{name: "invalid token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "lookup failure is not a 401", header: "Bearer broken", status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestRequireViewer(t *testing.T) {
	r := newEngine(OptionalViewer(stubAuth{"good": "alice"}), RequireViewer())

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer good").Code)
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Now()

	assert.True(t, rl.allow("1.1.1.1", now))
	assert.True(t, rl.allow("1.1.1.1", now))
	assert.False(t, rl.allow("1.1.1.1", now))
	// 不同客户端互不影响
	assert.True(t, rl.allow("2.2.2.2", now))
	// 令牌按速率恢复
	assert.True(t, rl.allow("1.1.1.1", now.Add(time.Second)))
}

func TestRateLimiter_Middleware(t *testing.T) {
	r := newEngine(NewRateLimiter(0.001, 1).Middleware())

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "").Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/", func(*gin.Context) { panic("boom") })

	w := do(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Contains(t, w.Body.String(), "internal server error")
}
