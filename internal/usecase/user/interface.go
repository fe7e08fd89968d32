package user

import "context"

// Usecase defines the interface for user query operations.
type Usecase interface {
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error)
	SearchUsers(ctx context.Context, in SearchUsersRequest) (*ListUsersResponse, error)
}
