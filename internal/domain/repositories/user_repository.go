package repositories

import (
	"context"

	"github.com/ototamirci/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user; a duplicate email yields a conflict error
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by email, including the password hash
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// UpdateProfile applies the non-nil fields of update and returns the result
	UpdateProfile(ctx context.Context, id string, update entities.ProfileUpdate) (*entities.User, error)
}
