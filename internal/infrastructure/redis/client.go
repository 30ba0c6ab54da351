package redis

import (
	"context"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/boardsync/backend/internal/config"
)

const pingTimeout = 5 * time.Second

// NewClient connects the Redis instance backing the session store and
// verifies it is reachable before the server starts accepting logins.
func NewClient(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*goRedis.Client, error) {
	opts, err := goRedis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	opts.ClientName = "boardsync-sessions"

	client := goRedis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info("session store connected",
			zap.String("addr", opts.Addr),
			zap.Int("db", opts.DB))
	}
	return client, nil
}
