package service

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/constants"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/cache"
	ctxutil "github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/context"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/logger"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
)

// CacheService stores rendered list pages. A nil store disables caching.
type CacheService struct {
	store cache.Store
	ttl   time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(store cache.Store, ttl time.Duration) *CacheService {
	return &CacheService{store: store, ttl: ttl}
}

// Enabled reports whether pages are cached at all.
func (s *CacheService) Enabled() bool {
	return s != nil && s.store != nil && s.ttl > 0
}

// GenerateCacheKey hashes the canonical query so keys stay short.
func (s *CacheService) GenerateCacheKey(q *querybuilder.Query, variant string) string {
	sum := md5.Sum([]byte(q.CacheKey() + "|" + variant))
	return fmt.Sprintf("%s%s:%x", constants.CacheKeyList, q.Resource, sum)
}

// GetPage decodes a cached page into dest. Any failure counts as a miss.
func (s *CacheService) GetPage(ctx context.Context, key string, dest any) bool {
	if !s.Enabled() {
		return false
	}
	ctx = ctxutil.WithFunction(ctx, "GetPage")

	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to read cached page").
			String("cache_key", key).
			Err(err).
			Log()
		return false
	}
	if !ok {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.WarnWithContext(ctx, "Failed to decode cached page").
			String("cache_key", key).
			Err(err).
			Log()
		return false
	}
	return true
}

// SetPage stores page under key. Errors are logged, never returned.
func (s *CacheService) SetPage(ctx context.Context, key string, page any) {
	if !s.Enabled() {
		return
	}
	ctx = ctxutil.WithFunction(ctx, "SetPage")

	data, err := json.Marshal(page)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to encode page for cache").
			String("cache_key", key).
			Err(err).
			Log()
		return
	}
	if err := s.store.Set(ctx, key, data, s.ttl); err != nil {
		logger.WarnWithContext(ctx, "Failed to cache page").
			String("cache_key", key).
			Err(err).
			Log()
	}
}

// Invalidate drops every cached page of resource.
func (s *CacheService) Invalidate(ctx context.Context, resource string) error {
	if !s.Enabled() {
		return nil
	}
	return s.store.DeletePrefix(ctx, constants.CacheKeyList+resource+":")
}
