package user

import domain "github-users-service/internal/domain/user"

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64 `validate:"required,gt=0"`
}

// GetUserResponse represents the response payload for user details.
// Degraded marks data served from the local cache after a remote failure.
type GetUserResponse struct {
	User     domain.User
	Degraded bool
}

// SearchUsersRequest represents the request payload for searching users by
// login substring.
type SearchUsersRequest struct {
	Query string
}

// ListUsersResponse represents the response payload for user listing.
// Degraded marks data served from the local cache after a remote failure.
type ListUsersResponse struct {
	Users    []domain.User
	Degraded bool
}
