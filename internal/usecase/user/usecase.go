package user

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github-users-service/internal/adapter/cache"
	domain "github-users-service/internal/domain/user"
	"github-users-service/internal/search"
	apperrors "github-users-service/pkg/errors"
	"github-users-service/pkg/security"
)

// RemoteSource defines the remote user source consumed by the service.
type RemoteSource interface {
	FetchAll(ctx context.Context) ([]domain.User, error)
	FetchPage(ctx context.Context, req domain.PageRequest) ([]domain.User, error)
	FetchOne(ctx context.Context, id int64) (*domain.User, error)
}

// Store defines the local store operations the service needs.
type Store interface {
	Upsert(ctx context.Context, u domain.User) error
	UpsertAll(ctx context.Context, users []domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
}

// Service implements the user-facing query operations: remote-first reads
// that persist what they fetch, degrading to cached data when the remote
// source fails. Every operation is single-shot; there are no retry loops.
type Service struct {
	remote   RemoteSource
	store    Store
	cache    cache.UserCache // hot fallback, may be nil
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new Service. If c is nil the hot cache fallback is disabled.
func New(remote RemoteSource, store Store, c cache.UserCache, log *zap.Logger) *Service {
	return &Service{
		remote:   remote,
		store:    store,
		cache:    c,
		log:      log,
		validate: validator.New(),
	}
}

// ListUsers fetches the full user list from the remote source and persists
// it. On any failure along that path it serves the store's current contents,
// flagged degraded.
func (s *Service) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	users, err := s.remote.FetchAll(ctx)
	if err == nil {
		// Persistence must complete even if the caller stops waiting
		err = s.store.UpsertAll(context.WithoutCancel(ctx), users)
		if err == nil {
			s.log.Debug("listed users from remote", zap.Int("count", len(users)))
			return &ListUsersResponse{Users: users}, nil
		}
	}

	s.log.Warn("remote list failed, serving cached users", zap.Error(err))

	cached, storeErr := s.store.GetAll(ctx)
	if storeErr != nil {
		return nil, fmt.Errorf("remote list failed and cache read failed: %w", storeErr)
	}

	return &ListUsersResponse{Users: cached, Degraded: true}, nil
}

// GetUser fetches a single user from the remote source and persists it. On
// failure it falls back to the hot cache, then the store, flagged degraded;
// a miss everywhere is a NotFoundError.
func (s *Service) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("get user validation failed", zap.Int64("id", in.ID), zap.Error(err))
		return nil, fmt.Errorf("invalid user id: %d", in.ID)
	}

	u, err := s.remote.FetchOne(ctx, in.ID)
	if err == nil {
		err = s.store.Upsert(context.WithoutCancel(ctx), *u)
		if err == nil {
			s.log.Debug("got user from remote", zap.Int64("id", u.ID), zap.String("login", u.Login))
			return &GetUserResponse{User: *u}, nil
		}
	}

	s.log.Warn("remote get failed, serving cached user", zap.Int64("id", in.ID), zap.Error(err))

	if s.cache != nil {
		hot, cacheErr := s.cache.Get(ctx, in.ID)
		if cacheErr != nil {
			s.log.Warn("hot cache read failed", zap.Int64("id", in.ID), zap.Error(cacheErr))
		} else if hot != nil {
			return &GetUserResponse{User: *hot, Degraded: true}, nil
		}
	}

	stored, storeErr := s.store.GetByID(ctx, in.ID)
	if storeErr != nil {
		if apperrors.IsNotFound(storeErr) {
			return nil, apperrors.NewNotFoundError("user",
				fmt.Sprintf("user %d unavailable: remote failed and never cached", in.ID))
		}
		return nil, storeErr
	}

	return &GetUserResponse{User: *stored, Degraded: true}, nil
}

// SearchUsers lists users with the same fallback semantics as ListUsers and
// applies the login substring filter. A blank query returns the full list.
func (s *Service) SearchUsers(ctx context.Context, in SearchUsersRequest) (*ListUsersResponse, error) {
	query, err := security.ValidateSearchQuery(in.Query)
	if err != nil {
		s.log.Warn("invalid search query", zap.String("query", in.Query), zap.Error(err))
		return nil, fmt.Errorf("invalid search query: %w", err)
	}

	resp, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	return &ListUsersResponse{
		Users:    search.Filter(resp.Users, query),
		Degraded: resp.Degraded,
	}, nil
}
