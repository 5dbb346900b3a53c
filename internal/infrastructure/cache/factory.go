// Package cache provides the idempotency stores used by event handlers.
package cache

import (
	"context"
	"fmt"

	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Backend names accepted in event.idempotency_backend
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// NewIdempotencyStore builds the store selected by eventCfg. The redis
// backend returns an error when redis is unreachable and never falls back
// to memory.
func NewIdempotencyStore(ctx context.Context, eventCfg config.EventConfig, redisCfg config.RedisConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch eventCfg.IdempotencyBackend {
	case "", BackendMemory:
		logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	case BackendRedis:
		store, err := NewRedisIdempotencyStore(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis idempotency store", zap.String("addr", redisCfg.Addr()))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", eventCfg.IdempotencyBackend)
	}
}

// IdempotencyConfig converts the event settings into the handler config
func IdempotencyConfig(eventCfg config.EventConfig) shared.IdempotencyConfig {
	cfg := shared.DefaultIdempotencyConfig()
	if eventCfg.IdempotencyTTL > 0 {
		cfg.TTL = eventCfg.IdempotencyTTL
	}
	return cfg
}
