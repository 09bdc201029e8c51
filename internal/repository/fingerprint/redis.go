package fingerprint

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/db"
	"github.com/askdoc-io/askdoc/internal/domain"
)

// kv is the consumer interface for the Redis-backed store (ISP).
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// RedisStore keeps one key per fingerprint so several replicas can share
// deduplication state. Store errors degrade to "not seen": re-ingesting an
// already-indexed document is wasteful but safe, while skipping a missing
// one would break retrieval.
type RedisStore struct {
	store     kv
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisStore creates a Redis-backed fingerprint store.
func NewRedisStore(store kv, keyPrefix string, logger *zap.Logger) *RedisStore {
	return &RedisStore{store: store, keyPrefix: keyPrefix + "fp:", logger: logger}
}

// Contains reports whether the fingerprint was ingested before.
func (s *RedisStore) Contains(ctx context.Context, fp domain.Fingerprint) bool {
	_, err := s.store.Get(ctx, s.keyPrefix+fp.String())
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			s.logger.Warn("Failed to check fingerprint", zap.Error(err))
		}
		return false
	}
	return true
}

// Add records a fingerprint. Best-effort: failures are logged, not raised.
func (s *RedisStore) Add(ctx context.Context, fp domain.Fingerprint) {
	if err := s.store.Set(ctx, s.keyPrefix+fp.String(), []byte("1")); err != nil {
		s.logger.Warn("Failed to record fingerprint",
			zap.String("fingerprint", fp.String()), zap.Error(err))
	}
}
