package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "github-users-service/internal/domain/user"
	syncer "github-users-service/internal/sync"
	"github-users-service/internal/usecase/user"
	apperrors "github-users-service/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockUsecase struct {
	mock.Mock
}

func (m *mockUsecase) ListUsers(ctx context.Context) (*user.ListUsersResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.ListUsersResponse), args.Error(1)
}

func (m *mockUsecase) GetUser(ctx context.Context, in user.GetUserRequest) (*user.GetUserResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.GetUserResponse), args.Error(1)
}

func (m *mockUsecase) SearchUsers(ctx context.Context, in user.SearchUsersRequest) (*user.ListUsersResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.ListUsersResponse), args.Error(1)
}

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Load(ctx context.Context, lt syncer.LoadType) (syncer.Result, error) {
	args := m.Called(ctx, lt)
	return args.Get(0).(syncer.Result), args.Error(1)
}

func setupRouter(t *testing.T, uc user.Usecase, loader Loader) *gin.Engine {
	t.Helper()

	h := NewUserHandler(uc, loader, zaptest.NewLogger(t))

	r := gin.New()
	v1 := r.Group("/v1/users")
	{
		v1.GET("", h.ListUsers)
		v1.GET("/search", h.SearchUsers)
		v1.GET("/:id", h.GetUser)
		v1.POST("/refresh", h.RefreshUsers)
		v1.POST("/append", h.AppendUsers)
	}
	return r
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestListUsers_OK(t *testing.T) {
	uc := new(mockUsecase)
	users := []domain.User{{ID: 1, Login: "alice"}, {ID: 2, Login: "bob"}}
	uc.On("ListUsers", mock.Anything).
		Return(&user.ListUsersResponse{Users: users}, nil).Once()

	r := setupRouter(t, uc, new(mockLoader))
	w := doRequest(r, http.MethodGet, "/v1/users")

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListUsersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Users, 2)
	assert.False(t, resp.Degraded)
}

func TestListUsers_DegradedFlagInBody(t *testing.T) {
	uc := new(mockUsecase)
	uc.On("ListUsers", mock.Anything).
		Return(&user.ListUsersResponse{Users: []domain.User{{ID: 1, Login: "a"}}, Degraded: true}, nil).Once()

	r := setupRouter(t, uc, new(mockLoader))
	w := doRequest(r, http.MethodGet, "/v1/users")

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListUsersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Degraded)
}

func TestGetUser_OK(t *testing.T) {
	uc := new(mockUsecase)
	uc.On("GetUser", mock.Anything, user.GetUserRequest{ID: 7}).
		Return(&user.GetUserResponse{User: domain.User{ID: 7, Login: "mojombo"}}, nil).Once()

	r := setupRouter(t, uc, new(mockLoader))
	w := doRequest(r, http.MethodGet, "/v1/users/7")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User     domain.User `json:"user"`
		Degraded bool        `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "mojombo", resp.User.Login)
}

func TestGetUser_NonNumericID(t *testing.T) {
	r := setupRouter(t, new(mockUsecase), new(mockLoader))
	w := doRequest(r, http.MethodGet, "/v1/users/abc")

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_id", resp.Error)
}

func TestGetUser_NotFound(t *testing.T) {
	uc := new(mockUsecase)
	uc.On("GetUser", mock.Anything, user.GetUserRequest{ID: 999}).
		Return(nil, apperrors.NewNotFoundError("user", "user 999 unavailable")).Once()

	r := setupRouter(t, uc, new(mockLoader))
	w := doRequest(r, http.MethodGet, "/v1/users/999")

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error)
}

func TestGetUser_ValidationErrorMapsTo400(t *testing.T) {
	uc := new(mockUsecase)
	uc.On("GetUser", mock.Anything, user.GetUserRequest{ID: -1}).
		Return(nil, errors.New("invalid user id: -1")).Once()

	r := setupRouter(t, uc, new(mockLoader))
	w := doRequest(r, http.MethodGet, "/v1/users/-1")

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error)
}

func TestSearchUsers_PassesQuery(t *testing.T) {
	uc := new(mockUsecase)
	uc.On("SearchUsers", mock.Anything, user.SearchUsersRequest{Query: "jas"}).
		Return(&user.ListUsersResponse{Users: []domain.User{{ID: 1, Login: "Jason"}}}, nil).Once()

	r := setupRouter(t, uc, new(mockLoader))
	w := doRequest(r, http.MethodGet, "/v1/users/search?q=jas")

	require.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestSearchUsers_InvalidQuery(t *testing.T) {
	uc := new(mockUsecase)
	uc.On("SearchUsers", mock.Anything, mock.Anything).
		Return(nil, errors.New("invalid search query: character ';' not allowed")).Once()

	r := setupRouter(t, uc, new(mockLoader))
	w := doRequest(r, http.MethodGet, "/v1/users/search?q=a%3Bb")

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error)
}

func TestRefreshUsers_OK(t *testing.T) {
	loader := new(mockLoader)
	loader.On("Load", mock.Anything, syncer.LoadRefresh).
		Return(syncer.Result{EndOfData: false}, nil).Once()

	r := setupRouter(t, new(mockUsecase), loader)
	w := doRequest(r, http.MethodPost, "/v1/users/refresh")

	require.Equal(t, http.StatusOK, w.Code)

	var resp LoadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.EndOfData)
	loader.AssertExpectations(t)
}

func TestAppendUsers_EndOfData(t *testing.T) {
	loader := new(mockLoader)
	loader.On("Load", mock.Anything, syncer.LoadAppend).
		Return(syncer.Result{EndOfData: true}, nil).Once()

	r := setupRouter(t, new(mockUsecase), loader)
	w := doRequest(r, http.MethodPost, "/v1/users/append")

	require.Equal(t, http.StatusOK, w.Code)

	var resp LoadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.EndOfData)
}

func TestRefreshUsers_LoadFailureMapsTo503(t *testing.T) {
	loader := new(mockLoader)
	loader.On("Load", mock.Anything, syncer.LoadRefresh).
		Return(syncer.Result{}, apperrors.NewLoadError("refresh", errors.New("network down"))).Once()

	r := setupRouter(t, new(mockUsecase), loader)
	w := doRequest(r, http.MethodPost, "/v1/users/refresh")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "load_failed", resp.Error)
}

func TestListUsers_RemoteErrorMapsTo502(t *testing.T) {
	uc := new(mockUsecase)
	uc.On("ListUsers", mock.Anything).
		Return(nil, apperrors.NewNetworkError(apperrors.NetworkTransport, "list users", 500, errors.New("boom"))).Once()

	r := setupRouter(t, uc, new(mockLoader))
	w := doRequest(r, http.MethodGet, "/v1/users")

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "remote_unavailable", resp.Error)
}
