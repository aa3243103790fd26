package user

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// ========================================
// AUTH DTOs
// ========================================

// RegisterRequest - public self-registration, always creates a "user" role
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(2, 255),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be 8-128 characters"),
		),
	)
}

// LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse - JWT tokens plus the sanitized user
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserDTO   `json:"user"`
}

// RefreshTokenRequest
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ========================================
// USER DTOs
// ========================================

// UserDTO is the public shape of a user (no credential material)
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserRequest - admin creates a user with an explicit role
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.Email, validation.Required, is.Email, validation.Length(5, 255)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.Role,
			validation.In(string(RoleUser), string(RoleAdmin)).Error("role must be user or admin"),
		),
	)
}

// UpdateUserRequest - admin partial update; nil fields are left untouched
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(2, 255)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.Password, validation.NilOrNotEmpty, validation.Length(8, 128)),
		validation.Field(&r.Role,
			validation.When(r.Role != nil,
				validation.In(string(RoleUser), string(RoleAdmin)).Error("role must be user or admin"),
			),
		),
	)
}

// ListUsersRequest - admin listing with pagination
type ListUsersRequest struct {
	Search string
	Page   int
	Limit  int
}

// Normalize clamps pagination to sane bounds
func (r *ListUsersRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 15
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}

// ListUsersResponse
type ListUsersResponse struct {
	Users []UserDTO `json:"users"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}
