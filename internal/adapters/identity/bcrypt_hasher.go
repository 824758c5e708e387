package identity

import (
	"errors"

	"github.com/ototamirci/backend/internal/domain/providers"
	apperrors "github.com/ototamirci/backend/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes passwords with bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher; cost 0 selects bcrypt.DefaultCost
func NewBcryptHasher(cost int) providers.PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of password
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", apperrors.NewInternalError("failed to hash password", err)
	}
	return string(hash), nil
}

// Compare returns nil when password matches hash
func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperrors.NewAuthenticationError("invalid credentials")
	}
	if err != nil {
		return apperrors.NewInternalError("failed to compare password", err)
	}
	return nil
}
