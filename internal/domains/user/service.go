package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service defines the business logic layer contract
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	// Logout revokes the presented access token until its natural expiry
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	RefreshToken(ctx context.Context, refreshToken string) (*LoginResponse, error)

	// Profile
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)

	// Admin functions
	ListUsers(ctx context.Context, req ListUsersRequest) (*ListUsersResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserDTO, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (*UserDTO, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}
