package keystore

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

const cacheEntryKey = CredentialKey

// CachedStore serves reads from memory until the entry expires. Writes go
// straight to the wrapped store and drop the cached value.
type CachedStore struct {
	store Store
	cache *cache.Cache
}

func NewCachedStore(store Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		store: store,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (s *CachedStore) Get(ctx context.Context) (string, error) {
	if cached, found := s.cache.Get(cacheEntryKey); found {
		return cached.(string), nil
	}

	key, err := s.store.Get(ctx)
	if err != nil {
		return "", err
	}

	s.cache.Set(cacheEntryKey, key, cache.DefaultExpiration)
	return key, nil
}

func (s *CachedStore) Set(ctx context.Context, key string) error {
	s.cache.Delete(cacheEntryKey)
	return s.store.Set(ctx, key)
}

func (s *CachedStore) Clear(ctx context.Context) error {
	s.cache.Delete(cacheEntryKey)
	return s.store.Clear(ctx)
}
