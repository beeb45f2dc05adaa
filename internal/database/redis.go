package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-chms/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const (
	redisDialTimeout = 5 * time.Second
	redisIOTimeout   = 3 * time.Second
	redisPingTimeout = 2 * time.Second
)

// RedisDB wraps the redis client. Client is nil unless STORE_DRIVER=redis.
type RedisDB struct {
	Client *redis.Client
}

// NewRedis connects to Redis when the durable store is configured to use it.
func NewRedis(lc fx.Lifecycle, cfg *config.Config) (*RedisDB, error) {
	if cfg.StoreDriver != "redis" {
		return &RedisDB{}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.DialTimeout = redisDialTimeout
	opts.ReadTimeout = redisIOTimeout
	opts.WriteTimeout = redisIOTimeout

	client := redis.NewClient(opts)
	if err := PingRedis(context.Background(), client); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Printf("Connected to Redis at %s", opts.Addr)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing Redis client...")
			return client.Close()
		},
	})

	return &RedisDB{Client: client}, nil
}

func PingRedis(ctx context.Context, client *redis.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
