package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/nurlyy/course_ui/pkg/config"
	"github.com/nurlyy/course_ui/pkg/logger"
)

// Redis представляет клиент для работы с Redis
type Redis struct {
	Client *redis.Client
	Config *config.RedisConfig
	Logger logger.Logger
}

// NewRedis создает новое подключение к Redis
func NewRedis(ctx context.Context, cfg *config.RedisConfig, log logger.Logger) (*Redis, error) {
	log.Info("Connecting to Redis", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info("Successfully connected to Redis")

	return NewRedisFromClient(client, cfg, log), nil
}

// NewRedisFromClient оборачивает уже созданный клиент
func NewRedisFromClient(client *redis.Client, cfg *config.RedisConfig, log logger.Logger) *Redis {
	return &Redis{
		Client: client,
		Config: cfg,
		Logger: log.With("component", "redis"),
	}
}

// Close закрывает соединение с Redis
func (r *Redis) Close() error {
	r.Logger.Info("Closing Redis connection")
	return r.Client.Close()
}

// Set сохраняет значение в кэше, ttl == 0 означает TTL по умолчанию
func (r *Redis) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = r.Config.DefaultTTL
	}

	if err := r.Client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set Redis key %s: %w", key, err)
	}

	r.Logger.Debug("Redis key set", map[string]interface{}{
		"key": key,
		"ttl": ttl.String(),
	})
	return nil
}

// Get получает значение из кэша. Второй результат false, если ключа нет
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get Redis key %s: %w", key, err)
	}
	return value, true, nil
}

// Delete удаляет значения из кэша
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete Redis keys: %w", err)
	}
	return nil
}
