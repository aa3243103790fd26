package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain entity, mapped 1:1 to the users table.
type User struct {
	// Identity
	ID    uuid.UUID `db:"id" json:"id"`
	Email string    `db:"email" json:"email"`

	// Authentication
	PasswordHash string `db:"password_hash" json:"-"` // Never expose in JSON

	// Profile
	Name string `db:"name" json:"name"`

	// Authorization. The role is an explicit column carried into the JWT;
	// there is no special-cased admin email anywhere.
	Role Role `db:"role" json:"role"`

	// Timestamps
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Role enum
type Role string

const (
	RoleUser  Role = "user"  // Regular member, borrows and returns books
	RoleAdmin Role = "admin" // Catalog and loan management
)

// IsValid checks role validity
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// String implements Stringer interface
func (r Role) String() string {
	return string(r)
}

// ToDTO strips sensitive fields before sending to the client
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
