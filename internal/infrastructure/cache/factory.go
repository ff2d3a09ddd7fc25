package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/config"
	"go.uber.org/zap"
)

const sweepInterval = 5 * time.Minute

// NewIdempotencyStore builds the store selected by cfg.Backend. A redis
// backend that cannot be reached falls back to memory when allowFallback is set.
func NewIdempotencyStore(ctx context.Context, cfg config.IdempotencyConfig, redisCfg config.RedisConfig, allowFallback bool, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case "", "memory":
		logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(sweepInterval), nil
	case "redis":
		store, err := NewRedisIdempotencyStore(ctx, redisCfg)
		if err == nil {
			logger.Info("using Redis idempotency store", zap.String("addr", redisCfg.Addr()))
			return store, nil
		}
		if !allowFallback {
			return nil, err
		}
		logger.Warn("Redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
		return NewInMemoryIdempotencyStore(sweepInterval), nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", cfg.Backend)
	}
}
