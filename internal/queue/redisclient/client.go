package redisclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	redisdb *redis.Client
}

// Config takes REDIS_ADDR as either host:port or a redis:// / rediss:// URL.
// Password and DB apply only when the URL does not set them.
type Config struct {
	Addr       string
	Password   string
	DB         int
	ClientName string
}

func New(cfg Config) (*Client, error) {
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{redisdb: redis.NewClient(opts)}, nil
}

func options(cfg Config) (*redis.Options, error) {
	var opts *redis.Options

	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		parsed, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
		opts = parsed
		if opts.Password == "" {
			opts.Password = cfg.Password
		}
		if opts.DB == 0 {
			opts.DB = cfg.DB
		}
	} else {
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	opts.ClientName = cfg.ClientName
	opts.DialTimeout = 2 * time.Second
	// go-redis gives blocking commands such as BRPOP their own deadline
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second

	return opts, nil
}

// Ping checks redis connectivity; used by /readyz.
func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}

// Raw exposes the client to the job queue and the notification publisher.
func (c *Client) Raw() *redis.Client {
	return c.redisdb
}
