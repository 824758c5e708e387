package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/ototamirci/backend/internal/domain/repositories"
	"github.com/ototamirci/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

var userColumns = []any{
	"id", "name", "email", "password_hash", "role",
	"phone", "phone_visible", "avatar_url", "created_at", "updated_at",
}

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"role":          string(user.Role),
		"phone":         user.Phone,
		"phone_visible": user.PhoneVisible,
		"avatar_url":    user.AvatarURL,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.Executor(ctx).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("email is already registered")
		}
		return apperrors.NewInternalError("failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("user with id %s not found", id))
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"email": email}, "user not found")
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Ex, notFound string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).From("users").Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user, err := scanUser(a.client.Executor(ctx).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return user, nil
}

// UpdateProfile applies the non-nil fields of update
func (a *UserAdapter) UpdateProfile(ctx context.Context, id string, update entities.ProfileUpdate) (*entities.User, error) {
	record := goqu.Record{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		record["name"] = *update.Name
	}
	if update.Phone != nil {
		record["phone"] = *update.Phone
	}
	if update.PhoneVisible != nil {
		record["phone_visible"] = *update.PhoneVisible
	}
	if update.AvatarURL != nil {
		record["avatar_url"] = *update.AvatarURL
	}

	query, args, err := a.db.Update("users").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Returning(userColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	user, err := scanUser(a.client.Executor(ctx).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to update user", err)
	}

	return user, nil
}

func scanUser(row rowScanner) (*entities.User, error) {
	user := &entities.User{}
	var role string
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.Phone,
		&user.PhoneVisible,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = entities.Role(role)
	return user, nil
}
