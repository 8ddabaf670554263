// Package redis connects the rate-limit record store.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"chatguard/internal/platform/config"
)

// Client is the shared go-redis client. It satisfies redis.UniversalClient.
type Client struct {
	*redis.Client
}

// New dials Redis and pings it once. An empty URL yields a nil client so the
// caller can fall back to the in-memory record store.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.ClientName = "chatguard"
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health is registered as the /healthz check for the record store.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
