// Package github implements the remote user source against the GitHub REST
// API. Failures propagate verbatim as NetworkError values; no retries or
// backoff happen at this layer.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github-users-service/internal/domain/user"
	apperrors "github-users-service/pkg/errors"
)

// ClientConfig holds configuration for the GitHub API client.
type ClientConfig struct {
	// BaseURL is the GitHub API base URL. Defaults to https://api.github.com
	BaseURL string

	// Timeout is the maximum time to wait for a single HTTP request.
	Timeout time.Duration

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client
}

// Client fetches user records from the GitHub REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a new GitHub API client.
func NewClient(cfg ClientConfig, log *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// FetchAll retrieves the default first batch of users from GET /users.
func (c *Client) FetchAll(ctx context.Context) ([]user.User, error) {
	var users []user.User
	if err := c.getJSON(ctx, "/users", nil, "fetch all users", &users); err != nil {
		return nil, err
	}
	c.log.Debug("fetched users", zap.Int("count", len(users)))
	return users, nil
}

// FetchPage retrieves one page of users from GET /users?page=N&per_page=M.
func (c *Client) FetchPage(ctx context.Context, req user.PageRequest) ([]user.User, error) {
	if req.Page < 1 || req.PerPage <= 0 {
		return nil, fmt.Errorf("invalid page request: page=%d per_page=%d", req.Page, req.PerPage)
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(req.Page))
	query.Set("per_page", strconv.Itoa(req.PerPage))

	var users []user.User
	if err := c.getJSON(ctx, "/users", query, "fetch users page", &users); err != nil {
		return nil, err
	}
	c.log.Debug("fetched users page",
		zap.Int("page", req.Page),
		zap.Int("per_page", req.PerPage),
		zap.Int("count", len(users)),
	)
	return users, nil
}

// FetchOne retrieves a single user from GET /users/{id}.
func (c *Client) FetchOne(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%d", id), nil, "fetch user", &u); err != nil {
		return nil, err
	}
	c.log.Debug("fetched user", zap.Int64("id", u.ID), zap.String("login", u.Login))
	return &u, nil
}

// getJSON performs a GET request and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, operation string, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewNetworkError(apperrors.NetworkTransport, operation, 0, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("operation", operation), zap.Error(err))
		return apperrors.NewNetworkError(apperrors.NetworkTransport, operation, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NewNetworkError(apperrors.NetworkNotFound, operation, resp.StatusCode, nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("unexpected status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
		)
		return apperrors.NewNetworkError(apperrors.NetworkTransport, operation, resp.StatusCode, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewNetworkError(apperrors.NetworkTransport, operation, resp.StatusCode, err)
	}

	return nil
}
