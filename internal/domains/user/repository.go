package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the data access contract for users.
// An interface so it can be swapped and mocked in unit tests.
type Repository interface {
	// Create inserts a new user.
	// Returns ErrEmailAlreadyExists on duplicate email.
	Create(ctx context.Context, user *User) error

	// FindByID returns ErrUserNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail is used by login.
	// Returns ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update persists name/email/password/role changes.
	// Returns ErrUserNotFound or ErrEmailAlreadyExists.
	Update(ctx context.Context, user *User) error

	// Delete removes the user row (loans cascade at the schema level)
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns users matching the optional search plus the total count
	List(ctx context.Context, req ListUsersRequest) ([]User, int, error)

	// ExistsByEmail checks email uniqueness ahead of insert
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
