package database

import (
	"context"
	"fmt"
	"time"

	"github.com/fathima-sithara/vidstream/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisConnectTimeout = 5 * time.Second

// ConnectRedis opens and pings the client used by the login rate limiter.
func ConnectRedis(cfg config.RedisConf, log *zap.SugaredLogger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Infow("redis connected", "addr", cfg.Addr)
	return rdb, nil
}
