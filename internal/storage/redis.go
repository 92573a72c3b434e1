package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/leetplan/plansync/internal/models"
)

// DefaultRedisPrefix namespaces plansync keys
const DefaultRedisPrefix = "plansync:"

// RedisRepository implements SettingsRepository on Redis
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository connects and pings the server
func NewRedisRepository(ctx context.Context, address, password string, db int, prefix string) (*RedisRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	slog.Debug("redis settings store connected", "address", address, "db", db, "prefix", prefix)

	return &RedisRepository{client: client, prefix: prefix}, nil
}

func openRedis(ctx context.Context, opts Options) (SettingsRepository, error) {
	return NewRedisRepository(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
}

func (r *RedisRepository) key(name string) string {
	return r.prefix + name
}

func (r *RedisRepository) GetStartDate(ctx context.Context) (models.Date, bool, error) {
	raw, err := r.client.Get(ctx, r.key(StartDateKey)).Result()
	if errors.Is(err, redis.Nil) {
		return models.Date{}, false, nil
	}
	if err != nil {
		return models.Date{}, false, fmt.Errorf("failed to read start date: %w", err)
	}
	return parseStoredDate(raw)
}

func (r *RedisRepository) SetStartDate(ctx context.Context, date models.Date) error {
	if err := r.client.Set(ctx, r.key(StartDateKey), date.String(), 0).Err(); err != nil {
		return fmt.Errorf("failed to store start date: %w", err)
	}
	return nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
