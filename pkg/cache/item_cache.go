package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL is the time-to-live for cached items.
	ItemCacheTTL = 24 * time.Hour

	itemKeyPart = "item"
)

// CachedItem is the denormalized read model stored in Redis.
// Fields are stored as a Redis hash.
type CachedItem struct {
	Index      int64     `json:"index"`
	Identifier string    `json:"identifier"`
	Price      int64     `json:"price"`
	State      int       `json:"state"`
	EscrowID   uuid.UUID `json:"escrow_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ItemCache provides structured read/write operations for item cache entries.
// Key format: "{namespace}:item:{index}"
type ItemCache struct {
	client *RedisClient
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r}
}

// Get retrieves a cached item by index.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, index int64) (*CachedItem, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(index)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}
	return fromHash(vals)
}

// setItemScript writes the hash and its TTL unless the stored entry is
// further along the lifecycle than the incoming one.
//
//	KEYS[1] item key
//	ARGV[1] incoming state, ARGV[2] TTL in milliseconds, ARGV[3..] field/value pairs
var setItemScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'state')
if cur and tonumber(cur) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV, 3))
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

// Set writes a cached item as a Redis hash with a 24-hour TTL. Item states
// only move forward, so a write carrying an older state than the stored one
// is dropped and Set reports stored=false.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) (stored bool, err error) {
	args := append([]any{item.State, ItemCacheTTL.Milliseconds()}, toHash(item)...)
	n, err := setItemScript.Run(ctx, c.client.Client(), []string{c.key(item.Index)}, args...).Int()
	if err != nil {
		return false, fmt.Errorf("cache set: %w", err)
	}
	return n == 1, nil
}

// Delete removes a cached item.
func (c *ItemCache) Delete(ctx context.Context, index int64) error {
	if err := c.client.Client().Del(ctx, c.key(index)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *ItemCache) key(index int64) string {
	return c.client.Key(itemKeyPart, strconv.FormatInt(index, 10))
}

func toHash(item *CachedItem) []any {
	return []any{
		"index", strconv.FormatInt(item.Index, 10),
		"identifier", item.Identifier,
		"price", strconv.FormatInt(item.Price, 10),
		"state", strconv.Itoa(item.State),
		"escrow_id", item.EscrowID.String(),
		"created_at", item.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at", item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromHash(vals map[string]string) (*CachedItem, error) {
	index, err := strconv.ParseInt(vals["index"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse index: %w", err)
	}
	price, err := strconv.ParseInt(vals["price"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse price: %w", err)
	}
	state, err := strconv.Atoi(vals["state"])
	if err != nil {
		return nil, fmt.Errorf("cache parse state: %w", err)
	}
	escrowID, err := uuid.Parse(vals["escrow_id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse escrow_id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, vals["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}

	return &CachedItem{
		Index:      index,
		Identifier: vals["identifier"],
		Price:      price,
		State:      state,
		EscrowID:   escrowID,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}
