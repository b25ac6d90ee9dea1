package valkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	valkeygo "github.com/valkey-io/valkey-go"
)

// ErrCacheMiss is returned by Get when the key does not exist. Callers treat
// it as "go to the database", not as a failure.
var ErrCacheMiss = errors.New("cache miss")

// keyPrefix namespaces every key so the instance can be shared with other
// tools without collisions.
const keyPrefix = "ww:"

// Cache is the Valkey-backed implementation of ports.CacheService.
type Cache struct {
	client valkeygo.Client
}

func New(addr string) (*Cache, error) {
	client, err := valkeygo.NewClient(valkeygo.ClientOption{
		InitAddress: []string{addr},
		ClientName:  "warehousewatch",
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect %s: %w", addr, err)
	}
	return &Cache{client: client}, nil
}

// Get returns the bytes stored under key, or ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := c.client.Do(ctx, c.client.B().Get().Key(keyPrefix+key).Build())
	if err := cmd.Error(); err != nil {
		if valkeygo.IsValkeyNil(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return cmd.AsBytes()
}

// Set stores value under key for ttlSeconds.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	ttl := time.Duration(ttlSeconds) * time.Second
	cmd := c.client.Do(ctx,
		c.client.B().Set().Key(keyPrefix+key).Value(valkeygo.BinaryString(value)).Ex(ttl).Build())
	if err := cmd.Error(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete drops key. Deleting an absent key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	cmd := c.client.Do(ctx, c.client.B().Del().Key(keyPrefix+key).Build())
	if err := cmd.Error(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Close() {
	c.client.Close()
}
