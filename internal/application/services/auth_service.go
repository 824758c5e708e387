package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/ototamirci/backend/internal/domain/providers"
	"github.com/ototamirci/backend/internal/domain/repositories"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// RegisterInput carries a sign-up request. Shop is only honoured for mechanics.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Role         entities.Role
	Phone        string
	PhoneVisible *bool
	Shop         *ShopInput
}

// AuthResult is a signed-in user with their bearer token
type AuthResult struct {
	User      *entities.User `json:"user"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// AuthService handles registration, login and profile management
type AuthService struct {
	users  repositories.UserRepository
	shops  repositories.ShopRepository
	tx     repositories.Transactor
	tokens providers.TokenProvider
	hasher providers.PasswordHasher
}

// NewAuthService creates a new auth service
func NewAuthService(
	users repositories.UserRepository,
	shops repositories.ShopRepository,
	tx repositories.Transactor,
	tokens providers.TokenProvider,
	hasher providers.PasswordHasher,
) *AuthService {
	return &AuthService{
		users:  users,
		shops:  shops,
		tx:     tx,
		tokens: tokens,
		hasher: hasher,
	}
}

// Register creates the account and, for a mechanic supplying shop details,
// the shop with its categories, all in one transaction.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	switch {
	case input.Name == "":
		return nil, apperrors.NewValidationError("name is required")
	case input.Email == "":
		return nil, apperrors.NewValidationError("valid email is required")
	case len(input.Password) < MinPasswordLength:
		return nil, apperrors.NewValidationError("password must be at least 6 characters")
	case !input.Role.Valid():
		return nil, apperrors.NewValidationError("role must be customer or mechanic")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &entities.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Phone:        strings.TrimSpace(input.Phone),
		PhoneVisible: input.PhoneVisible == nil || *input.PhoneVisible,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var shop *entities.Shop
	if input.Role == entities.RoleMechanic && input.Shop != nil {
		if input.Shop.Phone == "" {
			input.Shop.Phone = user.Phone
		}
		shop, err = NewShop(user.ID, *input.Shop, now)
		if err != nil {
			return nil, err
		}
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		if shop == nil {
			return nil
		}
		return s.shops.Create(ctx, shop)
	})
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login exchanges email and password for a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewAuthenticationError("invalid credentials")
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeAuthentication) {
			return nil, apperrors.NewAuthenticationError("invalid credentials")
		}
		return nil, err
	}

	return s.issue(user)
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, caller entities.Identity) (*entities.User, error) {
	return s.users.GetByID(ctx, caller.UserID)
}

// UpdateProfile changes the caller's editable profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, caller entities.Identity, update entities.ProfileUpdate) (*entities.User, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty")
		}
		update.Name = &name
	}
	if update.Phone != nil {
		phone := strings.TrimSpace(*update.Phone)
		update.Phone = &phone
	}

	return s.users.UpdateProfile(ctx, caller.UserID, update)
}

func (s *AuthService) issue(user *entities.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(entities.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
