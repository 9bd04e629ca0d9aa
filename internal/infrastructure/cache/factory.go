package cache

import (
	"context"
	"fmt"

	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// OpenIdempotencyStore picks the idempotency store for cfg. A disabled Redis
// gives the in-memory store. An unreachable Redis does too, unless
// cfg.Required is set, because the in-memory store only deduplicates within
// one process.
func OpenIdempotencyStore(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (shared.IdempotencyStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Enabled {
		log.Info("Redis disabled, idempotency keys kept in-memory")
		return NewInMemoryIdempotencyStore(), nil
	}

	store, err := NewRedisIdempotencyStore(ctx, cfg)
	switch {
	case err == nil:
		log.Info("Idempotency keys kept in Redis", zap.String("addr", cfg.Addr()))
		return store, nil
	case cfg.Required:
		return nil, fmt.Errorf("redis is required for idempotency keys: %w", err)
	}

	log.Warn("Redis unreachable, idempotency keys kept in-memory; "+
		"rent charges and sweep events may repeat across instances",
		zap.String("addr", cfg.Addr()),
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}
