package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/logger"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// MaxIdempotencyKeyLength bounds the Idempotency-Key header
const MaxIdempotencyKeyLength = 200

// IdempotencyConfig configures the Idempotency-Key guard
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency claims the Idempotency-Key of a mutating request before it
// runs. A key already claimed answers 409 DUPLICATE_REQUEST. The claim is
// released when the request fails so the client can retry with the same key.
// Requests without the header pass through unguarded.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
		if cfg.Store == nil || raw == "" || !isMutation(c.Request.Method) {
			c.Next()
			return
		}
		if len(raw) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInvalidInput, "Idempotency-Key is too long", c.GetString(RequestIDKey)))
			return
		}

		key := idempotencyKey(c, raw)
		claimed, err := cfg.Store.MarkProcessed(c.Request.Context(), key, ttl)
		if err != nil {
			// Store outage: run unguarded rather than reject every write
			logger.FromContext(c.Request.Context()).Error("idempotency store unavailable",
				zap.String("idempotency_key", raw), zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest, shared.ErrDuplicateRequest.Message, c.GetString(RequestIDKey)))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 2*time.Second)
			defer cancel()
			if err := cfg.Store.Release(ctx, key); err != nil {
				log.Warn("failed to release idempotency key",
					zap.String("idempotency_key", raw), zap.Error(err))
			}
		}
	}
}

// idempotencyKey scopes the client key to the caller and resource
func idempotencyKey(c *gin.Context, raw string) string {
	return GetActor(c).ID + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + raw
}
