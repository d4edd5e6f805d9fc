package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"taskdeck/internal/config"
	"taskdeck/pkg/logger"
)

var (
	client *redis.Client
	once   sync.Once
)

// Client returns the global Redis client (initialized on first use).
func Client(ctx context.Context) *redis.Client {
	once.Do(func() {
		cfg := config.Get()
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error(ctx, "Invalid REDIS_URL", "error", err, "url", cfg.RedisURL)
			return
		}
		opts.PoolSize = cfg.RedisPoolSize
		client = redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error(ctx, "Redis ping failed", "error", err)
			return
		}
		logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	})
	return client
}

func tasksKey(user string) string {
	return "tasks:user:" + user
}

// GetRawTasks reads a user's task list from Redis as raw JSON bytes.
// Returns (nil, false) on miss or error; the caller falls through to the
// database.
func GetRawTasks(ctx context.Context, user string) ([]byte, bool) {
	c := Client(ctx)
	if c == nil {
		return nil, false
	}
	b, err := c.Get(ctx, tasksKey(user)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get tasks failed", "error", err, "user", user)
		return nil, false
	}
	return b, true
}

// SetRawTasksAsync writes a user's serialized task list to Redis with the
// configured TTL, off the request path.
func SetRawTasksAsync(user string, b []byte) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		c := Client(ctx)
		if c == nil {
			return
		}
		ttl := time.Duration(config.Get().CacheTTL) * time.Second
		if err := c.Set(ctx, tasksKey(user), b, ttl).Err(); err != nil {
			logger.Debug(ctx, "Redis set tasks failed", "error", err, "user", user)
		}
	}()
}

// InvalidateTasks deletes a user's cached task list so the next read goes
// to the database.
func InvalidateTasks(ctx context.Context, user string) {
	c := Client(ctx)
	if c == nil {
		return
	}
	if err := c.Del(ctx, tasksKey(user)).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate tasks failed", "error", err, "user", user)
	}
}
