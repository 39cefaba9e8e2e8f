package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/config"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// Service is a redis-backed cache for model completions, keyed by a hash of
// the model and prompt. With caching disabled every call is a miss and Set
// is a no-op, so callers need no branching.
type Service struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewService connects to redis when the cache is enabled.
func NewService(cfg *config.CacheConfig) (*Service, error) {
	if !cfg.Enabled {
		return &Service{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// Get returns the cached completion for a prompt.
func (s *Service) Get(ctx context.Context, model, prompt string) (string, error) {
	if !s.config.Enabled || s.client == nil {
		return "", common.ErrCacheDisabled
	}

	key := cacheKey(model, prompt)
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			common.LogCacheMiss("llm", key)
			return "", fmt.Errorf("cache miss")
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	common.LogCacheHit("llm", key)
	return value, nil
}

// Set stores a completion under the prompt's key.
func (s *Service) Set(ctx context.Context, model, prompt, completion string) error {
	if !s.config.Enabled || s.client == nil {
		return nil
	}

	key := cacheKey(model, prompt)
	if err := s.client.Set(ctx, key, completion, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (s *Service) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func cacheKey(model, prompt string) string {
	hash := sha256.Sum256([]byte(model + "\x00" + prompt))
	return "llm:completion:" + hex.EncodeToString(hash[:])
}
