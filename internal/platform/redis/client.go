// Package redis opens the go-redis client backing the corpus store.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"dataproof/internal/platform/config"
)

// Client wraps the go-redis client with health checking capabilities.
type Client struct {
	*redis.Client
}

// Options translates config into go-redis options. REDIS_URL wins; otherwise
// host, port and password are used. Returns nil when Redis is not configured.
func Options(cfg config.Redis) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis URL: %w", err)
		}
		opts = parsed
	case cfg.Host != "":
		opts = &redis.Options{Addr: cfg.Addr(), Password: cfg.Password}
	default:
		return nil, nil
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// New creates a Redis client and pings it once. Returns nil, nil when Redis is
// not configured. A failed ping still returns the client together with the
// error so callers can decide between failing and running degraded.
func New(ctx context.Context, cfg config.Redis) (*Client, error) {
	opts, err := Options(cfg)
	if err != nil || opts == nil {
		return nil, err
	}

	client := &Client{Client: redis.NewClient(opts)}
	if err := client.Health(ctx); err != nil {
		return client, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.Client.Close()
}
