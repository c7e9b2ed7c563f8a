// Package cache wraps the Redis coordination store. Entries here are
// intentionally ephemeral: redemption claims and webhook dedup markers are
// written once, expire on their own, and are consumed at most once.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redemptionKeyPrefix = "qr:verify:"
	webhookKeyPrefix    = "paystack:webhook:"
	sessionKeyPrefix    = "session:"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

type Client struct {
	rdb *redis.Client
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// NewClientFromRedis wraps an existing go-redis client. Used by tests to
// inject a redismock connection.
func NewClientFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// RedemptionKey builds the coordination-store key for a redemption token
func RedemptionKey(token string) string {
	return redemptionKeyPrefix + token
}

// WebhookKey builds the dedup-marker key for an external webhook event id
func WebhookKey(eventID string) string {
	return webhookKeyPrefix + eventID
}

// SessionKey builds the key under which an active session is recorded
func SessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// SetIfAbsent atomically claims key for the given TTL. Returns true when
// this call created the entry, false when it already existed. This is the
// claim-if-absent primitive webhook deduplication relies on: under
// concurrent deliveries of the same event id exactly one caller wins.
func (c *Client) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, value, ttl).Result()
}

// GetDel atomically reads and removes key in a single operation. Returns
// found=false when the key was absent: never set, expired, or already
// consumed by a concurrent caller. Only one of N racing callers can
// observe found=true.
func (c *Client) GetDel(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
