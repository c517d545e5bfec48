package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
	"github.com/zubairqazi/bazaarline-backend/pkg/redis"
)

// Entity tags group cached keys so a write to one class can blow away every
// cached read of that class.
type Entity string

const (
	EntityCart         Entity = "cart"
	EntityProduct      Entity = "product"
	EntityOrder        Entity = "order"
	EntityVendor       Entity = "vendor"
	EntityCustomer     Entity = "customer"
	EntitySellerWallet Entity = "seller_wallet"
	EntityAdminWallet  Entity = "admin_wallet"
	EntityWithdraw     Entity = "withdraw"
	EntityTransaction  Entity = "transaction"
)

// Param is one query parameter baked into a cache key. Params are serialized
// in the order given; callers wanting order-independent keys must pass a
// canonical ordering themselves.
type Param struct {
	Key   string
	Value string
}

type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
	CachePattern(parts ...string) string
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
}

// Cache is the read-through JSON cache shared by the services. Every failure
// degrades to a miss; the source of truth is always the database.
type Cache struct {
	store      store
	logg       *logger.Logger
	defaultTTL time.Duration
}

func New(client *redis.Client, logg *logger.Logger, defaultTTL time.Duration) (*Cache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &Cache{store: client, logg: logg, defaultTTL: defaultTTL}, nil
}

// DeriveKey builds the deterministic key for an entity read.
func (c *Cache) DeriveKey(entity Entity, id string, params ...Param) string {
	parts := []string{string(entity)}
	if id != "" {
		parts = append(parts, id)
	}
	if len(params) > 0 {
		pairs := make([]string, 0, len(params))
		for _, p := range params {
			pairs = append(pairs, p.Key+"="+p.Value)
		}
		parts = append(parts, strings.Join(pairs, "&"))
	}
	return c.store.CacheKey(parts...)
}

// Get unmarshals a cached payload into dest. A false return means miss, either
// because the key is absent or the cache is unavailable.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !redis.IsMiss(err) {
			c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "cache read failed, falling through")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "cache payload corrupt, falling through")
		return false
	}
	return true
}

// Set stores the payload under key with the default TTL. Best effort.
func (c *Cache) Set(ctx context.Context, key string, payload any) {
	c.SetWithTTL(ctx, key, payload, c.defaultTTL)
}

// SetWithTTL stores the payload under key. Best effort.
func (c *Cache) SetWithTTL(ctx context.Context, key string, payload any, ttl time.Duration) {
	raw, err := json.Marshal(payload)
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "cache payload not serializable")
		return
	}
	if err := c.store.Set(ctx, key, string(raw), ttl); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "cache write failed")
	}
}

// InvalidateEntity removes every cached key for the given entity classes.
// Failures are logged, never surfaced; the underlying write must not be
// rolled back because the cache was unreachable.
func (c *Cache) InvalidateEntity(ctx context.Context, entities ...Entity) {
	for _, entity := range entities {
		pattern := c.store.CachePattern(string(entity))
		if _, err := c.store.DeleteByPattern(ctx, pattern); err != nil {
			logCtx := c.logg.WithField(ctx, "cache_entity", string(entity))
			c.logg.Error(logCtx, "cache invalidation failed", err)
		}
	}
}
