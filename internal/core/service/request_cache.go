package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/rl1809/pos-register/internal/port"
)

const (
	cacheKeyPrefix  = "reqcache:"
	DefaultCacheTTL = 24 * time.Hour
)

type cacheEntry struct {
	Data     json.RawMessage `json:"data"`
	StoredAt time.Time       `json:"stored_at"`
	TTL      time.Duration   `json:"ttl"`
}

func (e cacheEntry) expired(now time.Time) bool {
	return now.Sub(e.StoredAt) > e.TTL
}

// RequestCache is a TTL-bounded cache for idempotent read requests, backed
// by a KeyValueStore. It is advisory: every failure path (store unavailable,
// corrupt payload, expired entry) reports a miss, and callers must be able
// to fetch from the authoritative source instead. A miss never distinguishes
// "never cached" from "expired" or "storage down".
type RequestCache struct {
	store      port.KeyValueStore
	defaultTTL time.Duration
	now        func() time.Time
}

func NewRequestCache(store port.KeyValueStore, defaultTTL time.Duration) *RequestCache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultCacheTTL
	}
	return &RequestCache{
		store:      store,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// DeriveKey builds the cache key for a request as prefix + path + "_" + the
// JSON of the normalized params mapping. encoding/json emits map keys in
// sorted order, so two mappings holding the same pairs derive the same key
// regardless of insertion order.
func (c *RequestCache) DeriveKey(resourcePath string, params any) string {
	payload, err := json.Marshal(normalizeParams(params))
	if err != nil {
		payload = []byte("{}")
	}
	return cacheKeyPrefix + resourcePath + "_" + string(payload)
}

func normalizeParams(params any) map[string]any {
	if params == nil {
		return map[string]any{}
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return map[string]any{"value": fmt.Sprintf("%v", params)}
	}
	var mapping map[string]any
	if err := json.Unmarshal(raw, &mapping); err != nil {
		// Non-mapping params are wrapped under a single "value" key.
		return map[string]any{"value": json.RawMessage(raw)}
	}
	return mapping
}

// Set stores data under key with the default TTL.
func (c *RequestCache) Set(ctx context.Context, key string, data any) {
	c.SetTTL(ctx, key, data, c.defaultTTL)
}

// SetTTL stores data under key with an explicit TTL. A failed write is
// logged and swallowed; it surfaces as a miss later, not as an error now.
func (c *RequestCache) SetTTL(ctx context.Context, key string, data any, ttl time.Duration) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("request cache: marshal %s: %v", key, err)
		return
	}
	payload, err := json.Marshal(cacheEntry{
		Data:     raw,
		StoredAt: c.now(),
		TTL:      ttl,
	})
	if err != nil {
		log.Printf("request cache: marshal entry %s: %v", key, err)
		return
	}
	if err := c.store.Set(ctx, key, payload); err != nil {
		log.Printf("request cache: store %s: %v", key, err)
	}
}

// Get reads the entry for key into dest and reports whether it was present
// and fresh. Expired entries are deleted on read; there is no background
// sweep.
func (c *RequestCache) Get(ctx context.Context, key string, dest any) bool {
	payload, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, port.ErrKeyNotFound) {
			log.Printf("request cache: read %s: %v", key, err)
		}
		return false
	}

	var entry cacheEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		log.Printf("request cache: decode %s: %v", key, err)
		return false
	}

	if entry.expired(c.now()) {
		if err := c.store.Delete(ctx, key); err != nil {
			log.Printf("request cache: evict %s: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(entry.Data, dest); err != nil {
		log.Printf("request cache: decode %s: %v", key, err)
		return false
	}
	return true
}

// Clear removes every cached request. Keys outside the reserved prefix are
// left untouched, so the cache can share a store with other data.
func (c *RequestCache) Clear(ctx context.Context) {
	keys, err := c.store.Keys(ctx, cacheKeyPrefix)
	if err != nil {
		log.Printf("request cache: list keys: %v", err)
		return
	}
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil {
			log.Printf("request cache: delete %s: %v", key, err)
		}
	}
}
