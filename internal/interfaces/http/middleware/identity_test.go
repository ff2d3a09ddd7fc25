package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/auth"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/config"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/logger"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-identity-middleware"

func signToken(t *testing.T, userID, username string, expiresIn time.Duration) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:   userID,
		Username: username,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func identityRouter(v TokenValidator) (*gin.Engine, *shared.Actor, *string) {
	var actor shared.Actor
	var ctxActor string
	router := gin.New()
	router.Use(RequestID(), Identity(IdentityConfig{Validator: v}))
	handler := func(c *gin.Context) {
		actor = GetActor(c)
		ctxActor = logger.GetActorID(c.Request.Context())
		c.Status(http.StatusOK)
	}
	router.GET("/things", handler)
	router.POST("/things", handler)
	return router, &actor, &ctxActor
}

func TestIdentity_HeaderMode(t *testing.T) {
	router, actor, ctxActor := identityRouter(nil)

	t.Run("X-User-ID names the caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/things", nil)
		req.Header.Set(HeaderUserID, "clerk-7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "clerk-7", actor.ID)
		assert.Equal(t, "clerk-7", *ctxActor)
	})

	t.Run("missing header is anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, shared.AnonymousActor, *actor)
	})
}

func TestIdentity_TokenMode(t *testing.T) {
	v := auth.NewTokenValidator(config.JWTConfig{Enabled: true, Secret: testSecret})
	router, actor, _ := identityRouter(v)

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/things", nil)
		req.Header.Set(AuthHeaderKey, "Bearer "+signToken(t, "u-1", "alice", time.Hour))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, shared.Actor{ID: "u-1", Name: "alice"}, *actor)
	})

	t.Run("X-User-ID is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/things", nil)
		req.Header.Set(HeaderUserID, "spoofed")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, shared.AnonymousActor, *actor)
	})

	t.Run("mutation without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things", nil))

		require.Equal(t, http.StatusUnauthorized, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/things", nil)
		req.Header.Set(AuthHeaderKey, "Bearer "+signToken(t, "u-1", "alice", -time.Minute))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token has expired")
		assert.Contains(t, w.Body.String(), dto.ErrCodeTokenInvalid)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/things", nil)
		req.Header.Set(AuthHeaderKey, "Basic abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireBearer(t *testing.T) {
	v := auth.NewTokenValidator(config.JWTConfig{Secret: testSecret})
	router := newRouter(RequireBearer(v))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+signToken(t, "u-2", "", time.Hour))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetActor_Default(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, shared.AnonymousActor, GetActor(c))
}
