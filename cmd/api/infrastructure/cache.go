package infrastructure

import (
	"fmt"

	"go.uber.org/zap"

	"github-users-service/internal/config"
	redisclient "github-users-service/pkg/redis"
)

// NewRedisClient creates the hot-cache redis client. Returns nil when the
// cache is disabled; callers treat a nil client as "no hot cache".
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	if !cfg.Redis.Enabled {
		l.Info("redis hot cache disabled")
		return nil, nil
	}

	rdb, err := redisclient.NewClient(redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
