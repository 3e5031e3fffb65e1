package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisStore implements Store on Redis string keys holding JSON payloads.
type redisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// RedisConfig holds connection settings for the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger = logger.With().Str("component", "kvstore-redis").Logger()
	logger.Info().Str("addr", cfg.Addr).Msg("redis key-value store ready")

	return &redisStore{
		client: client,
		logger: logger,
	}, nil
}

func (s *redisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to get value")
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal value at %s: %w", key, err)
	}
	return true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}

	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to set value")
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) MGet(ctx context.Context, keys []string) ([]json.RawMessage, error) {
	values := make([]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return values, nil
	}

	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(keys)).Msg("failed to mget values")
		return nil, fmt.Errorf("failed to mget: %w", err)
	}

	for i, result := range results {
		if result == nil {
			continue
		}
		if str, ok := result.(string); ok {
			values[i] = json.RawMessage(str)
		}
	}
	return values, nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to delete value")
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
