package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// VerificationCache remembers which subjects the remote identity provider has
// vouched for, keyed by a digest of the credential. Entries expire after the
// configured TTL; a miss simply means the remote call happens again.
type VerificationCache interface {
	Get(credential string) (string, bool, error)
	Put(credential, subject string, ttl time.Duration) error
}

func credentialKey(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

type memoryVerificationCache struct {
	mu    sync.Mutex
	items map[string]cacheEntry
}

type cacheEntry struct {
	subject string
	expires time.Time
}

func NewMemoryVerificationCache() VerificationCache {
	return &memoryVerificationCache{
		items: make(map[string]cacheEntry),
	}
}

func (c *memoryVerificationCache) Get(credential string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[credentialKey(credential)]
	if !ok {
		return "", false, nil
	}
	if time.Now().UTC().After(entry.expires) {
		delete(c.items, credentialKey(credential))
		return "", false, nil
	}
	return entry.subject, true, nil
}

func (c *memoryVerificationCache) Put(credential, subject string, ttl time.Duration) error {
	if strings.TrimSpace(subject) == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[credentialKey(credential)] = cacheEntry{
		subject: subject,
		expires: time.Now().UTC().Add(ttl),
	}
	return nil
}

type redisVerificationCache struct {
	client redisKV
	prefix string
}

func NewRedisVerificationCache(client *redis.Client) VerificationCache {
	if client == nil {
		return nil
	}
	return &redisVerificationCache{
		client: client,
		prefix: "auth:verified:",
	}
}

func (c *redisVerificationCache) Get(credential string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	subject, err := c.client.Get(ctx, c.prefix+credentialKey(credential)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return subject, true, nil
}

func (c *redisVerificationCache) Put(credential, subject string, ttl time.Duration) error {
	if strings.TrimSpace(subject) == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+credentialKey(credential), subject, ttl).Err()
}
