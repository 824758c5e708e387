package repositories

import (
	"context"

	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/ototamirci/backend/pkg/geo"
)

// ShopRepository defines the interface for shop data operations
type ShopRepository interface {
	// Create creates a new shop together with its category rows
	Create(ctx context.Context, shop *entities.Shop) error

	// GetByID retrieves a shop and its categories
	GetByID(ctx context.Context, id string) (*entities.Shop, error)

	// GetByOwner retrieves the shop owned by a mechanic
	GetByOwner(ctx context.Context, ownerID string) (*entities.Shop, error)

	// Update applies an owner edit and returns the stored shop
	Update(ctx context.Context, id string, update entities.ShopUpdate) (*entities.Shop, error)

	// SetOpen toggles whether the shop accepts appointments
	SetOpen(ctx context.Context, id string, isOpen bool) (*entities.Shop, error)

	// Delete removes a shop
	Delete(ctx context.Context, id string) error

	// FindCandidates returns every shop that may lie within a proximity query.
	// Implementations may pre-filter by Box but must not drop a shop inside it.
	FindCandidates(ctx context.Context, filter CandidateFilter) ([]*entities.Shop, error)

	// LockForUpdate takes a row lock on the shop for the enclosing transaction
	LockForUpdate(ctx context.Context, id string) error

	// SetRating stores the derived rating aggregate
	SetRating(ctx context.Context, id string, rating float64, reviewCount int) error
}

// CandidateFilter narrows the shop scan behind a proximity search
type CandidateFilter struct {
	Box      *geo.Box
	Category string
}
