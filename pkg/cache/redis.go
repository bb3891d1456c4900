package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/itemchain/pkg/config"
)

const (
	defaultNamespace = "itemchain"
	defaultPoolSize  = 10
	pingTimeout      = 2 * time.Second
)

// RedisOptions configures the shared Redis client. Zero values fall back to
// the package defaults.
type RedisOptions struct {
	URL       string
	Namespace string
	PoolSize  int
}

// OptionsFromConfig extracts the Redis settings from the process config.
func OptionsFromConfig(cfg *config.Config) RedisOptions {
	return RedisOptions{
		URL:       cfg.RedisURL,
		Namespace: cfg.RedisNamespace,
		PoolSize:  cfg.RedisPoolSize,
	}
}

// RedisClient wraps redis.Client and scopes every key it hands out to one
// namespace, so the item read model and the session store can share a
// database with other tenants.
type RedisClient struct {
	client    *redis.Client
	namespace string
}

// NewRedisClient parses o.URL, applies pool settings and verifies
// connectivity before returning.
func NewRedisClient(ctx context.Context, o RedisOptions) (*RedisClient, error) {
	opts, err := redis.ParseURL(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	opts.PoolSize = o.PoolSize
	if opts.PoolSize <= 0 {
		opts.PoolSize = defaultPoolSize
	}
	opts.MinIdleConns = max(opts.PoolSize/5, 1)
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = opts.ReadTimeout + time.Second

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	ns := o.Namespace
	if ns == "" {
		ns = defaultNamespace
	}
	return &RedisClient{client: rdb, namespace: ns}, nil
}

// Key joins parts under the client namespace: Key("item", "3") is
// "itemchain:item:3".
func (r *RedisClient) Key(parts ...string) string {
	return namespacedKey(r.namespace, parts...)
}

// Namespace returns the prefix applied by Key.
func (r *RedisClient) Namespace() string {
	return r.namespace
}

// Ping checks the Redis connection health.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close gracefully shuts down the Redis connection pool.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client returns the underlying redis.Client for direct use.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

func namespacedKey(namespace string, parts ...string) string {
	if namespace == "" {
		return strings.Join(parts, ":")
	}
	return namespace + ":" + strings.Join(parts, ":")
}
