package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"learnpulse_backend/internal/engine"
	"learnpulse_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const profileKeyPrefix = "learnpulse:profile:"

// ProfileCache 以记录集指纹为键缓存画像，记录变化后旧键自然失效
type ProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProfileCache(rdb *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ProfileCache{rdb: rdb, ttl: ttl}
}

// ProfileCacheKey 学习者、校验后的记录集、丢弃条数与阈值共同决定画像
func ProfileCacheKey(user engine.User, history []engine.LearningRecord, th engine.Thresholds) (string, error) {
	valid, skipped := engine.ValidateRecords(history)

	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, v := range []any{user, valid, skipped, th} {
		if err := enc.Encode(v); err != nil {
			return "", fmt.Errorf("fingerprint profile input: %w", err)
		}
	}
	return fmt.Sprintf("%s%s:%s", profileKeyPrefix, user.ID, hex.EncodeToString(h.Sum(nil))), nil
}

func (c *ProfileCache) Get(ctx context.Context, key string) (*engine.LearnerProfile, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("Profile cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var p engine.LearnerProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.Log.Warn("Profile cache entry corrupted", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &p, true
}

func (c *ProfileCache) Set(ctx context.Context, key string, profile *engine.LearnerProfile) {
	if c == nil || c.rdb == nil || profile == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		logger.Log.Warn("Profile cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Log.Warn("Profile cache write failed", zap.String("key", key), zap.Error(err))
	}
}
