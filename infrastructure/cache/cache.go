package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"sentitube/infrastructure/logger"
)

// NewCache connects a redis client and verifies the connection. Callers may
// continue with a nil client; the repositories built on top are nil-safe.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not reachable")
		return nil, err
	}
	return client, nil
}
