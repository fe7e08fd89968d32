// Package cached wraps a remote user source with single-flight deduplication
// and write-through population of the hot redis cache.
package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github-users-service/internal/adapter/cache"
	domain "github-users-service/internal/domain/user"
)

// Source is the remote user source being wrapped.
type Source interface {
	FetchAll(ctx context.Context) ([]domain.User, error)
	FetchPage(ctx context.Context, req domain.PageRequest) ([]domain.User, error)
	FetchOne(ctx context.Context, id int64) (*domain.User, error)
}

// CachedSource decorates a Source. Concurrent FetchOne calls for the same id
// collapse into one remote request, and successful fetches populate the hot
// cache so later fallbacks have something recent to serve.
type CachedSource struct {
	src   Source
	cache cache.UserCache
	log   *zap.Logger
	group singleflight.Group
}

// New creates a CachedSource. cache may be nil, which disables population.
func New(src Source, c cache.UserCache, log *zap.Logger) *CachedSource {
	return &CachedSource{src: src, cache: c, log: log}
}

// FetchAll delegates to the wrapped source.
func (s *CachedSource) FetchAll(ctx context.Context) ([]domain.User, error) {
	return s.src.FetchAll(ctx)
}

// FetchPage delegates to the wrapped source.
func (s *CachedSource) FetchPage(ctx context.Context, req domain.PageRequest) ([]domain.User, error) {
	return s.src.FetchPage(ctx, req)
}

// FetchOne fetches a single user, deduplicating concurrent requests for the
// same id. Calls for different ids remain independent.
func (s *CachedSource) FetchOne(ctx context.Context, id int64) (*domain.User, error) {
	key := fmt.Sprintf("user:%d", id)
	result, err, shared := s.group.Do(key, func() (any, error) {
		u, err := s.src.FetchOne(ctx, id)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			// Population failure must not fail the fetch
			if err := s.cache.Set(ctx, u); err != nil {
				s.log.Warn("failed to populate user cache", zap.Int64("id", id), zap.Error(err))
			}
		}

		return u, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		s.log.Debug("fetch shared across concurrent callers", zap.Int64("id", id))
	}

	return result.(*domain.User), nil
}
