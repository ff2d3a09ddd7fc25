package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/auth"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/logger"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Identity context keys
const (
	ActorKey      = "actor"
	AuthHeaderKey = "Authorization"
)

// TokenValidator validates bearer tokens issued by the identity provider
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// IdentityConfig configures how the caller is identified
type IdentityConfig struct {
	// Validator turns on bearer-token identity. When nil, X-User-ID is
	// trusted and missing identities become the anonymous actor.
	Validator TokenValidator
	Logger    *zap.Logger
}

// Identity resolves the caller for every request and stores it as a
// shared.Actor. With a validator configured, a presented token must be
// valid and mutating requests must present one.
func Identity(cfg IdentityConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		actor, err := resolveActor(c, cfg.Validator)
		if err != nil {
			log.Debug("rejected caller identity",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			code := dto.ErrCodeUnauthorized
			if !errors.Is(err, errMissingToken) {
				code = dto.ErrCodeTokenInvalid
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				code, authMessage(err), c.GetString(RequestIDKey)))
			return
		}

		c.Set(ActorKey, actor)
		ctx, _ := logger.WithActorID(c.Request.Context(), logger.FromContext(c.Request.Context()), actor.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireBearer only lets requests with a valid bearer token through
func RequireBearer(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.ExtractBearer(c.GetHeader(AuthHeaderKey))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, authMessage(errMissingToken), c.GetString(RequestIDKey)))
			return
		}
		if _, err := v.Validate(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeTokenInvalid, authMessage(err), c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}

var errMissingToken = errors.New("missing bearer token")

func resolveActor(c *gin.Context, v TokenValidator) (shared.Actor, error) {
	if v == nil {
		if id := strings.TrimSpace(c.GetHeader(HeaderUserID)); id != "" && len(id) <= 128 {
			return shared.Actor{ID: id, Name: id}, nil
		}
		return shared.AnonymousActor, nil
	}

	header := c.GetHeader(AuthHeaderKey)
	if header == "" {
		if isMutation(c.Request.Method) {
			return shared.Actor{}, errMissingToken
		}
		return shared.AnonymousActor, nil
	}
	token, ok := auth.ExtractBearer(header)
	if !ok {
		return shared.Actor{}, auth.ErrInvalidToken
	}
	claims, err := v.Validate(token)
	if err != nil {
		return shared.Actor{}, err
	}
	return claims.Actor(), nil
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, errMissingToken):
		return "Missing authorization header"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	default:
		return "Invalid token"
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// GetActor returns the caller resolved by Identity, or the anonymous actor
func GetActor(c *gin.Context) shared.Actor {
	if v, ok := c.Get(ActorKey); ok {
		if actor, ok := v.(shared.Actor); ok && !actor.IsZero() {
			return actor
		}
	}
	return shared.AnonymousActor
}
