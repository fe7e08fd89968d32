package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "github-users-service/internal/domain/user"
	apperrors "github-users-service/pkg/errors"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) FetchAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockRemote) FetchPage(ctx context.Context, req domain.PageRequest) ([]domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockRemote) FetchOne(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Upsert(ctx context.Context, u domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockStore) UpsertAll(ctx context.Context, users []domain.User) error {
	return m.Called(ctx, users).Error(0)
}

func (m *mockStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockStore) GetAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newService(t *testing.T, remote *mockRemote, store *mockStore) *Service {
	t.Helper()
	return New(remote, store, nil, zaptest.NewLogger(t))
}

func TestListUsers_RemoteSuccessPersists(t *testing.T) {
	remote := new(mockRemote)
	store := new(mockStore)
	users := []domain.User{{ID: 1, Login: "alice"}, {ID: 2, Login: "bob"}}

	remote.On("FetchAll", mock.Anything).Return(users, nil).Once()
	store.On("UpsertAll", mock.Anything, users).Return(nil).Once()

	svc := newService(t, remote, store)

	resp, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, users, resp.Users)
	assert.False(t, resp.Degraded)
	remote.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestListUsers_RemoteFailureServesStore(t *testing.T) {
	remote := new(mockRemote)
	store := new(mockStore)
	stored := []domain.User{{ID: 1, Login: "alice"}}

	remote.On("FetchAll", mock.Anything).Return(nil, errors.New("network down")).Once()
	store.On("GetAll", mock.Anything).Return(stored, nil).Once()

	svc := newService(t, remote, store)

	resp, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stored, resp.Users)
	assert.True(t, resp.Degraded)
}

func TestListUsers_PersistFailureServesStore(t *testing.T) {
	remote := new(mockRemote)
	store := new(mockStore)
	fresh := []domain.User{{ID: 1, Login: "alice"}}
	stored := []domain.User{{ID: 9, Login: "old"}}

	remote.On("FetchAll", mock.Anything).Return(fresh, nil).Once()
	store.On("UpsertAll", mock.Anything, fresh).Return(errors.New("disk full")).Once()
	store.On("GetAll", mock.Anything).Return(stored, nil).Once()

	svc := newService(t, remote, store)

	resp, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stored, resp.Users)
	assert.True(t, resp.Degraded)
}

func TestListUsers_BothPathsFail(t *testing.T) {
	remote := new(mockRemote)
	store := new(mockStore)

	remote.On("FetchAll", mock.Anything).Return(nil, errors.New("network down")).Once()
	store.On("GetAll", mock.Anything).Return(nil, errors.New("db closed")).Once()

	svc := newService(t, remote, store)

	_, err := svc.ListUsers(context.Background())
	assert.Error(t, err)
}

func TestGetUser_RemoteSuccessPersists(t *testing.T) {
	remote := new(mockRemote)
	store := new(mockStore)
	u := &domain.User{ID: 7, Login: "mojombo"}

	remote.On("FetchOne", mock.Anything, int64(7)).Return(u, nil).Once()
	store.On("Upsert", mock.Anything, *u).Return(nil).Once()

	svc := newService(t, remote, store)

	resp, err := svc.GetUser(context.Background(), GetUserRequest{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, *u, resp.User)
	assert.False(t, resp.Degraded)
	store.AssertExpectations(t)
}

func TestGetUser_InvalidID(t *testing.T) {
	svc := newService(t, new(mockRemote), new(mockStore))

	_, err := svc.GetUser(context.Background(), GetUserRequest{ID: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")

	_, err = svc.GetUser(context.Background(), GetUserRequest{ID: -3})
	assert.Error(t, err)
}

func TestGetUser_RemoteFailureFallsBackToStore(t *testing.T) {
	remote := new(mockRemote)
	store := new(mockStore)
	stored := &domain.User{ID: 7, Login: "mojombo"}

	remote.On("FetchOne", mock.Anything, int64(7)).Return(nil, errors.New("timeout")).Once()
	store.On("GetByID", mock.Anything, int64(7)).Return(stored, nil).Once()

	svc := newService(t, remote, store)

	resp, err := svc.GetUser(context.Background(), GetUserRequest{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, *stored, resp.User)
	assert.True(t, resp.Degraded)
}

func TestGetUser_HotCacheServedBeforeStore(t *testing.T) {
	remote := new(mockRemote)
	store := new(mockStore)
	hot := new(mockCache)
	cached := &domain.User{ID: 7, Login: "mojombo"}

	remote.On("FetchOne", mock.Anything, int64(7)).Return(nil, errors.New("timeout")).Once()
	hot.On("Get", mock.Anything, int64(7)).Return(cached, nil).Once()

	svc := New(remote, store, hot, zaptest.NewLogger(t))

	resp, err := svc.GetUser(context.Background(), GetUserRequest{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, *cached, resp.User)
	assert.True(t, resp.Degraded)
	// The store was never consulted
	store.AssertExpectations(t)
}

func TestGetUser_HotCacheMissFallsThroughToStore(t *testing.T) {
	remote := new(mockRemote)
	store := new(mockStore)
	hot := new(mockCache)
	stored := &domain.User{ID: 7, Login: "mojombo"}

	remote.On("FetchOne", mock.Anything, int64(7)).Return(nil, errors.New("timeout")).Once()
	hot.On("Get", mock.Anything, int64(7)).Return(nil, nil).Once()
	store.On("GetByID", mock.Anything, int64(7)).Return(stored, nil).Once()

	svc := New(remote, store, hot, zaptest.NewLogger(t))

	resp, err := svc.GetUser(context.Background(), GetUserRequest{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, *stored, resp.User)
	assert.True(t, resp.Degraded)
}

func TestGetUser_TotalMissIsNotFound(t *testing.T) {
	remote := new(mockRemote)
	store := new(mockStore)

	remote.On("FetchOne", mock.Anything, int64(7)).Return(nil, errors.New("timeout")).Once()
	store.On("GetByID", mock.Anything, int64(7)).
		Return(nil, apperrors.NewNotFoundError("user", "not here")).Once()

	svc := newService(t, remote, store)

	_, err := svc.GetUser(context.Background(), GetUserRequest{ID: 7})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSearchUsers_FiltersByLogin(t *testing.T) {
	remote := new(mockRemote)
	store := new(mockStore)
	users := []domain.User{{ID: 1, Login: "Jason"}, {ID: 2, Login: "bob"}, {ID: 3, Login: "jasmine"}}

	remote.On("FetchAll", mock.Anything).Return(users, nil).Once()
	store.On("UpsertAll", mock.Anything, users).Return(nil).Once()

	svc := newService(t, remote, store)

	resp, err := svc.SearchUsers(context.Background(), SearchUsersRequest{Query: "jas"})
	require.NoError(t, err)
	require.Len(t, resp.Users, 2)
	assert.Equal(t, "Jason", resp.Users[0].Login)
	assert.Equal(t, "jasmine", resp.Users[1].Login)
}

func TestSearchUsers_BlankQueryReturnsAll(t *testing.T) {
	remote := new(mockRemote)
	store := new(mockStore)
	users := []domain.User{{ID: 1, Login: "alice"}, {ID: 2, Login: "bob"}}

	remote.On("FetchAll", mock.Anything).Return(users, nil).Once()
	store.On("UpsertAll", mock.Anything, users).Return(nil).Once()

	svc := newService(t, remote, store)

	resp, err := svc.SearchUsers(context.Background(), SearchUsersRequest{Query: "   "})
	require.NoError(t, err)
	assert.Equal(t, users, resp.Users)
}

func TestSearchUsers_RejectsInvalidQuery(t *testing.T) {
	svc := newService(t, new(mockRemote), new(mockStore))

	_, err := svc.SearchUsers(context.Background(), SearchUsersRequest{Query: "a;drop"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid search query")
}

func TestSearchUsers_DegradedFlagPropagates(t *testing.T) {
	remote := new(mockRemote)
	store := new(mockStore)
	stored := []domain.User{{ID: 1, Login: "alice"}}

	remote.On("FetchAll", mock.Anything).Return(nil, errors.New("down")).Once()
	store.On("GetAll", mock.Anything).Return(stored, nil).Once()

	svc := newService(t, remote, store)

	resp, err := svc.SearchUsers(context.Background(), SearchUsersRequest{Query: "ali"})
	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	require.Len(t, resp.Users, 1)
}
