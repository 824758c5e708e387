package repositories

import (
	"context"

	"github.com/ototamirci/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Upsert inserts the review or, when (shop, user) already exists,
	// overwrites rating and comment. Returns the stored row.
	Upsert(ctx context.Context, review *entities.Review) (*entities.Review, error)

	// Stats returns the sum and count of ratings stored for a shop
	Stats(ctx context.Context, shopID string) (entities.RatingStats, error)

	// ListByShop retrieves a shop's reviews newest first
	ListByShop(ctx context.Context, shopID string) ([]*entities.Review, error)
}
