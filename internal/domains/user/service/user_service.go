package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"library-api/internal/domains/user"
	"library-api/internal/shared/middleware"
	"library-api/pkg/cache"
	"library-api/pkg/jwt"
)

// userService implements user.Service
type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
	denylist   cache.Cache // revoked access tokens live here until expiry
}

// NewUserService creates the service instance with injected dependencies
func NewUserService(repo user.Repository, jwtManager *jwt.Manager, denylist cache.Cache) user.Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		denylist:   denylist,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

// Register creates a new member account and logs it in immediately
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.LoginResponse, error) {
	// DTO validation already ran at the handler layer, double-check anyway
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}

	// bcrypt cost 12: balance between security and latency
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Name:         req.Name,
		Role:         user.RoleUser, // self-registration never grants admin
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	return s.buildLoginResponse(newUser)
}

// Login authenticates a user and returns JWT tokens
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email exists
		return nil, user.ErrInvalidCredentials
	}

	// Constant-time comparison
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.buildLoginResponse(u)
}

// Logout denylists the presented token until its natural expiry.
// After that the denylist entry is dead weight, so the TTL matches.
func (s *userService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}

	if err := s.denylist.Set(ctx, middleware.DenylistKey(tokenID), true, ttl); err != nil {
		return fmt.Errorf("denylist token: %w", err)
	}
	return nil
}

// RefreshToken exchanges a valid refresh token for a fresh token pair
func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*user.LoginResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	// Re-read the user so a role change since issuance takes effect
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.buildLoginResponse(u)
}

func (s *userService) buildLoginResponse(u *user.User) (*user.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email, u.Role.String())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &user.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(s.jwtManager.AccessExpiry()),
		User:         u.ToDTO(),
	}, nil
}

// ========================================
// PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// ========================================
// ADMIN FUNCTIONS
// ========================================

func (s *userService) ListUsers(ctx context.Context, req user.ListUsersRequest) (*user.ListUsersResponse, error) {
	req.Normalize()

	users, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	dtos := make([]user.UserDTO, len(users))
	for i := range users {
		dtos[i] = users[i].ToDTO()
	}

	return &user.ListUsersResponse{
		Users: dtos,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	return s.GetProfile(ctx, userID)
}

func (s *userService) CreateUser(ctx context.Context, req user.CreateUserRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	role := user.Role(req.Role)
	if req.Role == "" {
		role = user.RoleUser
	}
	if !role.IsValid() {
		return nil, user.ErrInvalidRole
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Name:         req.Name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	dto := newUser.ToDTO()
	return &dto, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req user.UpdateUserRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Role != nil {
		role := user.Role(*req.Role)
		if !role.IsValid() {
			return nil, user.ErrInvalidRole
		}
		u.Role = role
	}
	if req.Password != nil {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), 12)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(passwordHash)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.repo.Delete(ctx, userID)
}
