package redisconn

import (
	"context"
	"time"

	"marque/config"
	"marque/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Connect opens a Redis client for the feed bridge and verifies it with the
// same short retry loop the database connector uses.
func Connect(cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	var err error
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = rdb.Ping(ctx).Err()
		cancel()
		if err == nil {
			logger.Sugar.Infof("Successfully connected to Redis at %s", cfg.RedisAddr)
			return rdb
		}
		logger.Sugar.Infof("Redis connection failed, retrying in 2s... (%v)", err)
		time.Sleep(2 * time.Second)
	}
	logger.Sugar.Fatalf("Could not connect to Redis after retries: %v", err)
	return nil
}
