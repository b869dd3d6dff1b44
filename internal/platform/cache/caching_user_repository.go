// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"authvault_backend/internal/feature/auth/domain/entity"
	"authvault_backend/internal/feature/auth/usecase"
)

// CachingUserRepository decorates a UserRepository with Redis caching of
// FindByEmail lookups. It implements the decorator pattern, transparently
// adding caching without modifying the underlying repository.
//
// Every Save invalidates the cached record before writing through, so a stale
// OTP or verification state is never served after a mutation.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// NewCachingUserRepository decorates a UserRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindByEmail retrieves a user, checking cache first then falling back to the
// database.
func (c *CachingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByEmail(ctx, email)
	}

	key := c.cacheKey(email)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var u entity.User
		if err := json.Unmarshal(b, &u); err == nil {
			return &u, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	u, err := c.inner.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(u); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return u, nil
}

// ExistsByEmail is passed through to the underlying repository.
func (c *CachingUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return c.inner.ExistsByEmail(ctx, email)
}

// Save invalidates the cached record and writes through to the underlying
// repository.
func (c *CachingUserRepository) Save(ctx context.Context, u *entity.User) error {
	// Invalidate before the write so a concurrent reader cannot re-cache the
	// old record after the database commit
	if c.rdb != nil && u != nil {
		_ = c.rdb.Del(ctx, c.cacheKey(u.Email)).Err() // Best effort
	}

	if err := c.inner.Save(ctx, u); err != nil {
		return err
	}

	if c.rdb != nil && u != nil {
		_ = c.rdb.Del(ctx, c.cacheKey(u.Email)).Err()
	}
	return nil
}

// cacheKey generates the cache key for an email lookup.
func (c *CachingUserRepository) cacheKey(email string) string {
	return fmt.Sprintf("%s:%s", c.namespace, email)
}
