package repository

import (
	"context"
	"time"

	domrepo "Velra/internal/domain/repository"
	pkgcache "Velra/pkg/cache"
)

// RefreshLockKey is the cache key guarding a refresh cycle.
const RefreshLockKey = "refresh:lock"

// CacheLocker adapts a cache.Service to the Locker port. With Redis behind it
// the lock spans processes; with the memory cache it only spans goroutines.
type CacheLocker struct {
	cache pkgcache.Service
}

func NewCacheLocker(c pkgcache.Service) *CacheLocker {
	return &CacheLocker{cache: c}
}

func (l *CacheLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.cache.TryLock(ctx, key, ttl)
}

func (l *CacheLocker) Unlock(ctx context.Context, key string) error {
	err := l.cache.Unlock(ctx, key)
	if err == pkgcache.ErrCacheMiss {
		return nil
	}
	return err
}

// Close releases the underlying cache connection.
func (l *CacheLocker) Close() error { return l.cache.Close() }

var _ domrepo.Locker = (*CacheLocker)(nil)
