package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github-users-service/internal/domain/user"
	syncer "github-users-service/internal/sync"
	"github-users-service/internal/usecase/user"
	apperrors "github-users-service/pkg/errors"
)

// Loader drives the paged load cycle from the REST surface.
type Loader interface {
	Load(ctx context.Context, lt syncer.LoadType) (syncer.Result, error)
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc     user.Usecase
	loader Loader
	log    *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, loader Loader, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		loader: loader,
		log:    log,
	}
}

// ListUsersResponse represents the HTTP response for listing users.
// Degraded marks data served from local cache after a remote failure.
type ListUsersResponse struct {
	Users    []domain.User `json:"users"`
	Degraded bool          `json:"degraded"`
}

// LoadResponse represents the HTTP response for a paged load step.
type LoadResponse struct {
	EndOfData bool `json:"end_of_data"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ListUsers handles GET /v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error("list users failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Users:    resp.Users,
		Degraded: resp.Degraded,
	})
}

// GetUser handles GET /v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.log.Warn("invalid user id", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "user id must be a valid number",
		})
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.log.Warn("get user failed", zap.Int64("id", id), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     resp.User,
		"degraded": resp.Degraded,
	})
}

// SearchUsers handles GET /v1/users/search?q=
func (h *UserHandler) SearchUsers(c *gin.Context) {
	resp, err := h.uc.SearchUsers(c.Request.Context(), user.SearchUsersRequest{
		Query: c.Query("q"),
	})
	if err != nil {
		h.log.Warn("search users failed", zap.String("q", c.Query("q")), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Users:    resp.Users,
		Degraded: resp.Degraded,
	})
}

// RefreshUsers handles POST /v1/users/refresh
func (h *UserHandler) RefreshUsers(c *gin.Context) {
	result, err := h.loader.Load(c.Request.Context(), syncer.LoadRefresh)
	if err != nil {
		h.log.Warn("refresh failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoadResponse{EndOfData: result.EndOfData})
}

// AppendUsers handles POST /v1/users/append
func (h *UserHandler) AppendUsers(c *gin.Context) {
	result, err := h.loader.Load(c.Request.Context(), syncer.LoadAppend)
	if err != nil {
		h.log.Warn("append failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoadResponse{EndOfData: result.EndOfData})
}

// handleError maps application errors to HTTP status codes.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	if statuser, ok := err.(apperrors.HTTPStatuser); ok {
		status = statuser.HTTPStatus()
	}
	switch {
	case strings.HasPrefix(err.Error(), "invalid"):
		status = http.StatusBadRequest
		code = "validation_error"
	case apperrors.IsNotFound(err):
		code = "not_found"
	case status == http.StatusServiceUnavailable:
		code = "load_failed"
	case status == http.StatusBadGateway:
		code = "remote_unavailable"
	}

	c.JSON(status, ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}
