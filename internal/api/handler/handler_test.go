package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/chirper/config"
	"github.com/d60-Lab/chirper/internal/service"
	"github.com/d60-Lab/chirper/pkg/cursor"
)

func init() { gin.SetMode(gin.TestMode) }

func TestHandleError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: service.ErrInvalidLimit, status: http.StatusBadRequest},
		{err: service.NewValidationError("content", "content is too long"), status: http.StatusBadRequest},
		{err: cursor.ErrInvalid, status: http.StatusBadRequest},
		{err: service.ErrFollowSelf, status: http.StatusBadRequest},
		{err: service.ErrUnauthenticated, status: http.StatusUnauthorized},
		{err: service.ErrInvalidCredentials, status: http.StatusUnauthorized},
		{err: fmt.Errorf("lookup: %w", service.ErrPostNotFound), status: http.StatusNotFound},
		{err: service.ErrUserNotFound, status: http.StatusNotFound},
		{err: service.ErrEmailTaken, status: http.StatusConflict},
		{err: errors.New("db down"), status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			handleError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestParseLimit(t *testing.T) {
	h := NewHandler(Services{}, cursor.NewCodec("s"), config.FeedConfig{DefaultLimit: 10, MaxLimit: 50})

	tests := []struct {
		query string
		want  int
		ok    bool
	}{
		{query: "", want: 10, ok: true},
		{query: "limit=", want: 10, ok: true},
		{query: "limit=1", want: 1, ok: true},
		{query: "limit=50", want: 50, ok: true},
		{query: "limit=0", ok: false},
		{query: "limit=51", ok: false},
		{query: "limit=ten", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, ok := h.parseLimit(c)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}
