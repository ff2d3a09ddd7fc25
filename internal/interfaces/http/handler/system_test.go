package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func healthBody(t *testing.T, h *HealthHandler) (int, map[string]any) {
	t.Helper()
	r := gin.New()
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	resp := decode(t, w)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	return w.Code, data
}

func TestHealthHandler(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		code, data := healthBody(t, NewHealthHandler(pingerFunc(func(context.Context) error { return nil }), nil))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "up", data["database"])
		assert.NotEmpty(t, data["uptime"])
	})

	t.Run("database down", func(t *testing.T) {
		code, data := healthBody(t, NewHealthHandler(pingerFunc(func(context.Context) error {
			return errors.New("connection refused")
		}), nil))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "degraded", data["status"])
		assert.Equal(t, "down", data["database"])
	})

	t.Run("no database", func(t *testing.T) {
		code, data := healthBody(t, NewHealthHandler(nil, nil))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "unknown", data["database"])
	})
}
