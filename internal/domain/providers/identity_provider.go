package providers

import (
	"time"

	"github.com/ototamirci/backend/internal/domain/entities"
)

// TokenProvider issues and verifies bearer credentials
type TokenProvider interface {
	// Issue signs a credential for the identity and returns it with its expiry
	Issue(identity entities.Identity) (string, time.Time, error)

	// Verify validates a credential and returns the identity it carries
	Verify(token string) (*entities.Identity, error)
}

// PasswordHasher hashes and checks password credentials
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
