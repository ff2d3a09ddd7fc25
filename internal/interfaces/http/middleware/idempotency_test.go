package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/cache"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStore) Close() error { return nil }

func idempotentRouter(cfg IdempotencyConfig, status *int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Identity(IdentityConfig{}), Idempotency(cfg))
	router.POST("/sales", func(c *gin.Context) {
		c.Status(*status)
	})
	router.GET("/sales", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func send(router *gin.Engine, method, key, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/sales", nil)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	if user != "" {
		req.Header.Set(HeaderUserID, user)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore(0)
	defer store.Close()
	status := http.StatusCreated
	router := idempotentRouter(IdempotencyConfig{Store: store, TTL: time.Hour}, &status)

	t.Run("replay after success is rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "k-1", "u1").Code)

		w := send(router, http.MethodPost, "k-1", "u1")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeDuplicateRequest)
	})

	t.Run("keys are scoped per caller", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "k-1", "u2").Code)
	})

	t.Run("failed request releases the key", func(t *testing.T) {
		status = http.StatusUnprocessableEntity
		assert.Equal(t, http.StatusUnprocessableEntity, send(router, http.MethodPost, "k-2", "u1").Code)

		status = http.StatusCreated
		assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "k-2", "u1").Code)
	})

	t.Run("no key and reads are unguarded", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "", "u1").Code)
		assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "", "u1").Code)
		assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "k-1", "u1").Code)
		assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "k-1", "u1").Code)
	})

	t.Run("oversized key", func(t *testing.T) {
		w := send(router, http.MethodPost, strings.Repeat("k", MaxIdempotencyKeyLength+1), "u1")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestIdempotency_StoreErrors(t *testing.T) {
	t.Run("outage runs the request unguarded", func(t *testing.T) {
		store := &mockStore{}
		store.On("MarkProcessed", mock.Anything, "anonymous:POST:/sales:k", time.Hour).
			Return(false, errors.New("redis down"))
		status := http.StatusCreated
		router := idempotentRouter(IdempotencyConfig{Store: store, TTL: time.Hour}, &status)

		assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "k", "").Code)
		store.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("release failure keeps the response", func(t *testing.T) {
		store := &mockStore{}
		store.On("MarkProcessed", mock.Anything, mock.Anything, 24*time.Hour).Return(true, nil)
		store.On("Release", mock.Anything, "anonymous:POST:/sales:k").Return(errors.New("redis down"))
		status := http.StatusInternalServerError
		router := idempotentRouter(IdempotencyConfig{Store: store}, &status)

		assert.Equal(t, http.StatusInternalServerError, send(router, http.MethodPost, "k", "").Code)
		store.AssertExpectations(t)
	})
}

func TestIdempotency_NilStore(t *testing.T) {
	status := http.StatusCreated
	router := idempotentRouter(IdempotencyConfig{}, &status)
	require.Equal(t, http.StatusCreated, send(router, http.MethodPost, "k", "").Code)
	require.Equal(t, http.StatusCreated, send(router, http.MethodPost, "k", "").Code)
}
